// Package domain contains the core types and business rules for sitechat.
// It has no dependencies on adapters or infrastructure.
package domain
