// Package service contains the application-specific use cases. It
// orchestrates domain objects, stores and the notification pipeline to
// fulfill business operations.
//
// The central type is LifecycleService, which runs soft-delete and restore
// cascades inside a single transaction together with the notification the
// mutation produces, then fans the committed notification out over the
// realtime and email channels. UserService covers registration and
// authentication; NotificationService is the read side of the notification
// audit trail.
//
// Services receive dependencies through constructor injection and depend on
// store interfaces only, never on concrete infrastructure.
package service
