// SPDX-License-Identifier: Apache-2.0

package load

import "fmt"

// ConnectError is returned when a connection to Snowflake cannot be
// established.
type ConnectError struct {
	Account string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connecting to snowflake account %s: %s", e.Account, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// StageUploadError is returned when PUTting a file to a Snowflake stage
// fails after all retries.
type StageUploadError struct {
	File string
	Err  error
}

func (e *StageUploadError) Error() string {
	return fmt.Sprintf("uploading %s to stage: %s", e.File, e.Err)
}

func (e *StageUploadError) Unwrap() error { return e.Err }

// CopyError is returned when a COPY INTO statement fails after all retries.
type CopyError struct {
	Table string
	File  string
	Err   error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("COPY INTO %s from %s: %s", e.Table, e.File, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }
