// Package http provides HTTP handlers and middleware for the studio API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response:
//     {"token","expiresAt","user"} with the token also surfaced via the
//     `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the
//     Authorization header or session cookie. Returns 204 No Content and clears
//     the cookie.
//   - POST /session/refresh: rotates the current session token and extends its
//     lifetime.
//   - POST /users: open practitioner registration exchanging the payloads
//     defined in user_handler.go. GET/PUT/DELETE /me operate on the acting
//     user's own account.
//   - GET/PUT/DELETE /availability plus GET /availability/summary: weekly
//     working-hours pattern endpoints exchanging the `workdayPayload` defined
//     in availability_handler.go. DELETE resets to the built-in default.
//   - GET /appointments, POST /appointments, GET/PUT/DELETE /appointments/{id}:
//     appointment endpoints exchanging the `appointmentDTO` defined in
//     appointment_handler.go. Listing accepts `from`/`to` date bounds and an
//     `appointmentType` filter. A PUT with a changed appointmentType replaces
//     the entry under the same identifier.
//   - GET /calendar/week?start=YYYY-MM-DD: the assembled week view with grid
//     placements. GET /calendar/week/export serves the same week as an
//     iCalendar download.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
