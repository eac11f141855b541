// Package mail defines the message payload and the transports that deliver it.
//
// Use cases depend on the Mail interface only. Concrete transports are:
//
//   - SMTP delivers through an SMTP relay (github.com/go-mail/mail).
//   - Memory captures messages in process so they can be inspected.
//   - Spool writes messages to a durable SpoolStore; Flush later hands them
//     to another transport.
//   - Null validates and discards.
//
// NewFromDriver selects one of them by name.
package mail
