//go:build seek_strict

package seek

const defaultVerification = VerifyStrict
