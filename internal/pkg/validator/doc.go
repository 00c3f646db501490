// Package validator wraps go-playground/validator v10 with English
// translations and the custom rules used by the inbound layer.
package validator
