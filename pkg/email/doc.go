// Package email defines the outbound email sender used by the notification
// channel.
//
// Two implementations are provided: a Postmark-backed client for production
// and a development sender that writes each message to disk instead of
// sending it. Callers depend only on the EmailSender interface, so the
// notification layer does not care which transport is wired in.
package email
