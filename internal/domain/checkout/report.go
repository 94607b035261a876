package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/errortranslator"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"go.uber.org/zap"
)

const logPrefix = "[Processing Payment]"

// handleProcessorFailure turns a failed processor call into customer notices.
// Structured rejections get one translated notice per error and a single
// aggregated log line; anything else is treated as a transport failure.
func (d *checkoutDomain) handleProcessorFailure(ctx context.Context, order *model.Order, err error) {
	var procErr *model.ProcessorError
	if errors.As(err, &procErr) {
		messages := make([]string, 0, len(procErr.Errors))
		for _, detail := range procErr.Errors {
			messages = append(messages, d.translator.ProcessorMessage(detail))
		}
		if len(messages) == 0 {
			messages = append(messages, errortranslator.GenericPaymentNotice)
		}

		d.log(ctx).Error(fmt.Sprintf("%s Order ID: %s - Response: %s", logPrefix, order.ID, strings.Join(messages, ",")),
			zap.Int("status_code", procErr.StatusCode),
			zap.Strings("codes", errorCodes(procErr.Errors)),
		)

		for _, msg := range messages {
			d.notify(ctx, order.ID, model.NoticeError, msg)
		}
		return
	}

	d.logTransportError(ctx, order, err)
	d.notify(ctx, order.ID, model.NoticeError, errortranslator.ConnectionErrorNotice)
}

func (d *checkoutDomain) logTransportError(ctx context.Context, order *model.Order, err error) {
	fields := []zap.Field{zap.String("order_id", order.ID.String()), zap.Error(err)}

	var transportErr *model.TransportError
	if errors.As(err, &transportErr) {
		d.log(ctx).Error(fmt.Sprintf("%s Response error %s", logPrefix, string(transportErr.Body)),
			append(fields, zap.String("endpoint", transportErr.Endpoint), zap.Int("status_code", transportErr.StatusCode))...,
		)
		return
	}
	d.log(ctx).Error(logPrefix+" Response error", fields...)
}

func errorCodes(details []model.ProcessorErrorDetail) []string {
	codes := make([]string, 0, len(details))
	for _, detail := range details {
		codes = append(codes, detail.Code)
	}
	return codes
}
