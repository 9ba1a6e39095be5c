// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"runtime"
	"testing"
)

func TestWorkerCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   WorkerCount
		want    int
		wantErr bool
	}{
		{0, runtime.NumCPU(), false},
		{1, 1, false},
		{16, 16, false},
		{-1, 0, true},
	}

	for _, tt := range tests {
		err := tt.value.Validate()
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidWorkerCount) {
				t.Errorf("WorkerCount(%d).Validate() error = %v, want ErrInvalidWorkerCount", tt.value, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("WorkerCount(%d).Validate() error = %v", tt.value, err)
		}
		if got := tt.value.Effective(); got != tt.want {
			t.Errorf("WorkerCount(%d).Effective() = %d, want %d", tt.value, got, tt.want)
		}
	}
}
