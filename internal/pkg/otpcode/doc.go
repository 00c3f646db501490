// Package otpcode generates the one-time numeric codes sent over the
// delivery channel, plus the random salt each code is hashed with.
package otpcode
