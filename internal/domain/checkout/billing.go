package checkout

import "github.com/micahbule/payments-via-paymongo-for-woo/internal/model"

// ToBillingObject projects the order's billing fields into the processor's
// billing shape. Missing fields are passed through empty.
func ToBillingObject(order *model.Order) *model.BillingObject {
	return &model.BillingObject{
		Name:  order.BillingFirstName + " " + order.BillingLastName,
		Email: order.BillingEmail,
		Phone: order.BillingPhone,
		Address: model.BillingAddress{
			Line1:      order.BillingAddress1,
			Line2:      order.BillingAddress2,
			City:       order.BillingCity,
			State:      order.BillingState,
			Country:    order.BillingCountry,
			PostalCode: order.BillingPostcode,
		},
	}
}
