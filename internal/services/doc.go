// Package services holds the application services behind the shell:
// authentication, clients, invoices and company settings.
//
// Services read and write the record store through the repositories and
// report every state change to an audit.Trail after it has been committed.
// Operations that attribute an action take the caller's *session.Session.
package services
