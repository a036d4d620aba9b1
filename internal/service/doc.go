// Package service contains the application use cases for task management.
// It sits between the HTTP handlers in internal/api and the persistence
// interfaces in internal/store.
//
// Services receive their dependencies through constructor injection and
// depend only on store interfaces, never on a specific database engine.
// Writes run inside store.RunInTransaction, which is where pending changes
// are committed.
//
// Error handling follows the same rules across the package:
//  1. Expected conditions are returned as sentinel errors (ErrTaskNotFound)
//     or as the domain's validation errors.
//  2. Unexpected failures are wrapped in TaskServiceError with the name of
//     the operation that failed.
//  3. The API layer maps these errors to HTTP status codes.
package service
