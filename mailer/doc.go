// Package mailer delivers the outbound messages requested through the
// gateway's send-email route.
//
// SMTPMailer submits messages to an SMTP relay. LogMailer accepts messages
// without delivering them and is used for dry runs. MockMailer is a testify
// mock for handler tests.
package mailer
