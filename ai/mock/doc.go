// Package mock provides test doubles for the ai package interfaces.
//
// The mocks default to deterministic behavior (hash-derived vectors, canned
// answers) so tests run without external services, and expose function
// fields for injecting failures or custom responses.
package mock
