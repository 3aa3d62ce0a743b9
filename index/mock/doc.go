// Package mock provides a test double for the index.Gateway interface.
package mock
