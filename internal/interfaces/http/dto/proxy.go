package dto

// The proxy endpoints mirror the upstream-facing body shapes their
// existing consumers depend on, instead of the standard Response
// envelope: errors arrive under a top-level "detail" key.

// FieldError describes one failed field in a proxy validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorBody is the 422 body of the proxy endpoints.
type ValidationErrorBody struct {
	Detail []FieldError `json:"detail"`
}

// GatewayErrorDetail embeds the upstream failure in a 502 body. The
// upstream response is carried as decoded JSON, or as {"raw_text": ...}
// when the upstream body was not JSON.
type GatewayErrorDetail struct {
	Message       string `json:"message"`
	AzureStatus   int    `json:"azure_status"`
	AzureResponse any    `json:"azure_response"`
}

// GatewayErrorBody is the 502 body of the proxy endpoints.
type GatewayErrorBody struct {
	Detail GatewayErrorDetail `json:"detail"`
}

// DetailErrorBody is the plain-message error body of the proxy
// endpoints, used for 404 and 500 responses.
type DetailErrorBody struct {
	Detail string `json:"detail"`
}

// RawTextBody wraps a non-JSON upstream success body.
type RawTextBody struct {
	RawText string `json:"raw_text"`
}
