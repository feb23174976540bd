package services

import "time"

// Services defined in this package:
// - AuthService: credentials registration, sign-in and session issuing
// - IdentityService: OAuth sign-in through the configured identity providers
// - CourseService: course creation and listing
// - UserService: account listings and dashboard data

// clock returns the current time; tests replace it
type clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
