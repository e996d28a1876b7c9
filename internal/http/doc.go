// Package http exposes the command dispatcher over a small webhook API.
//
// The router exposes the following endpoints:
//   - POST /updates: accepts one chat update. Body:
//     {"update_id","message":{"from":{"id","first_name","username"},"text"}}.
//     The message text is dispatched as a command and the replies it produced
//     are returned as {"update_id","replies":[...]}. When a webhook secret is
//     configured the request must carry it in the X-Webhook-Secret header.
//   - GET /healthz: reports {"status":"ok"} once the store answers a ping.
//
// Request/response DTOs live alongside their handlers.
package http
