// Package domain contains the core business entities of the task API.
// It is independent of any specific storage engine or delivery mechanism.
package domain
