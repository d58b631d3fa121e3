// Package api implements the HTTP surface: authentication endpoints, the
// notification audit trail, lifecycle cascade operations and the websocket
// event stream. Handlers translate between HTTP and the service layer and
// never touch stores directly.
package api
