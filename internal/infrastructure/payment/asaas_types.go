package payment

// asaasCustomerRequest is the request body for creating a customer
type asaasCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	CPFCNPJ string `json:"cpfCnpj,omitempty"`
}

// asaasCustomer is a customer record returned by the API
type asaasCustomer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// asaasCustomerList is the paginated list envelope used by GET /customers
type asaasCustomerList struct {
	Data []asaasCustomer `json:"data"`
}

// asaasChargeRequest is the request body for opening a charge
type asaasChargeRequest struct {
	Customer          string `json:"customer"`
	BillingType       string `json:"billingType"`
	Value             string `json:"value"`
	DueDate           string `json:"dueDate"`
	Description       string `json:"description,omitempty"`
	ExternalReference string `json:"externalReference,omitempty"`
}

// asaasCharge is a charge record returned by the API
type asaasCharge struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// asaasPixQRCode is the response of GET /payments/{id}/pixQrCode
type asaasPixQRCode struct {
	Payload      string `json:"payload"`
	EncodedImage string `json:"encodedImage"`
}

// asaasError is a single entry of the provider's error envelope
type asaasError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// asaasErrorResponse is the provider's error envelope
type asaasErrorResponse struct {
	Errors []asaasError `json:"errors"`
}

// hasCode reports whether any entry carries the given error code
func (r asaasErrorResponse) hasCode(code string) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}
