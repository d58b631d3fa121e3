// Package email queues and delivers notification emails.
//
// Delivery is decoupled from the business transaction: jobs are enqueued
// only after the transaction commits, and a single worker loop drains the
// queue so a slow mail transport never blocks a request. Failed sends are
// retried a fixed number of times with a constant delay and then dropped
// with a log line; there is no durable dead letter store.
package email
