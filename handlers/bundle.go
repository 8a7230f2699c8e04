// File: handlers/bundle.go
package handlers

// HandlerBundle groups the endpoint handlers and the settings routes need.
type HandlerBundle struct {
	Booking  *BookingHandler
	Provider *ProviderHandler

	JWTSecret         []byte
	MaxRequestsPerMin int
	CORSOrigins       []string
}
