// SPDX-License-Identifier: Apache-2.0

package runstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/runstore"
)

func TestPutGetListRemove(t *testing.T) {
	s := runstore.New[int]()

	s.Put("run-1", 10)
	s.Put("run-2", 20)

	v, ok := s.Get("run-1")
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	assert.ElementsMatch(t, []string{"run-1", "run-2"}, s.List())

	s.Remove("run-1")
	_, ok = s.Get("run-1")
	assert.False(t, ok)
	assert.Equal(t, []string{"run-2"}, s.List())
}

func TestGetMissing(t *testing.T) {
	s := runstore.New[string]()
	_, ok := s.Get("nope")
	assert.False(t, ok)
}
