package main

import "errors"

var (
	errNoOutbox   = errors.New("the notification outbox needs STORE_DRIVER=postgres")
	errNoSchedule = errors.New("NOTIFY_RESEND_SCHEDULE is not set")
)
