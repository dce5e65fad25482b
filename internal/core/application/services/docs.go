// Package services holds application services that coordinate ports without
// owning a transaction. The notification dispatcher lives here rather than in
// the domain layer because it drives channel gateways and repositories.
package services
