// Package notify emails the operator after every terminal callback outcome.
//
// Each authorization attempt, successful or not, produces exactly one report
// so the operator has an audit trail of who knocked on the callback endpoint
// and with what state. Reports carry state identifiers and redacted token
// metadata but never raw token or authorization code values.
//
// Delivery is best-effort. A failed send is logged and swallowed so that a
// mail outage cannot change the HTTP answer of a callback.
package notify
