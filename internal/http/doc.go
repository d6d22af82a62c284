// Package http provides HTTP handlers, middleware, and the router for the
// appointment booking API.
//
// The router exposes the following endpoints:
//   - POST /signup, POST /signin: account creation and authentication. Both
//     return {"token","expires_at","user"} with the token also surfaced via
//     the `X-Session-Token` header and a `session_token` cookie.
//   - POST /signout: revokes the current session token and clears the cookie.
//   - GET /session: returns the authenticated principal.
//   - POST /session/admin: exchanges the administrator PIN for an elevated
//     session role on the current session.
//   - GET /services, GET /services/{id}, GET /services/{id}/slots?date=:
//     catalog reads available to any authenticated principal. POST /services,
//     PUT /services/{id}, DELETE /services/{id} require admin privileges and
//     exchange the `serviceRequest` payload defined in service_handler.go.
//   - POST /appointments, GET /appointments/mine: booking and the caller's
//     own appointment list.
//   - GET /admin/appointments?date=, POST /admin/appointments/{id}/approve,
//     POST /admin/appointments/{id}/cancel: administrator appointment
//     management.
//   - GET /admin/dashboard, GET /admin/analytics?range=: reporting views.
//   - GET /ws/appointments?scope=mine, GET /ws/services: live feeds pushing a
//     fresh snapshot over a websocket whenever the underlying collection
//     changes.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
