// Package mailhandler implements the message dispatch route and its client.
//
// POST /api/send-email accepts a JSON body
//
//	{"to": "alice@example.com", "subject": "...", "text": "...", "html": "..."}
//
// validates it, and hands the message to the configured interfaces.Mailer.
// Like keyshandler, the route relies on the access gate mounted in front of it.
package mailhandler
