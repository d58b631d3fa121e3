// Package domain defines the entity graph of the task management system:
// organizations, departments, users, the three task kinds, activities,
// threaded comments, attachments, materials, vendors, and notifications.
// Every entity carries the shared soft-delete lifecycle fields; cascading a
// lifecycle transition through the ownership graph is the job of the cascade
// package, not of these types.
package domain
