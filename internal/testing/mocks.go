// Package testing provides shared mocks for rackfish tests.
package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rackfish/rackfish/internal/redfish"
)

// MockClient is a mock implementation of the redfish.Client interface.
// It can be used across all tests that need to script controller behavior.
type MockClient struct {
	mock.Mock
}

var _ redfish.Client = (*MockClient)(nil)

// BIOSBootMode returns the scripted BIOS boot mode.
func (m *MockClient) BIOSBootMode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// BootDevices returns the scripted boot device list.
func (m *MockClient) BootDevices(ctx context.Context, seqKey string) ([]redfish.BootDevice, error) {
	args := m.Called(ctx, seqKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]redfish.BootDevice), args.Error(1)
}

// PatchBootOrder records a boot order patch.
func (m *MockClient) PatchBootOrder(ctx context.Context, seqKey string, devices []redfish.BootDevice) error {
	args := m.Called(ctx, seqKey, devices)
	return args.Error(0)
}

// PatchOneTimeBoot records a one-time boot patch.
func (m *MockClient) PatchOneTimeBoot(ctx context.Context, device string) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

// SetNextBootPXE records a PXE one-shot override.
func (m *MockClient) SetNextBootPXE(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// JobQueue returns the scripted pending job identifiers.
func (m *MockClient) JobQueue(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// DeleteJob records a job deletion.
func (m *MockClient) DeleteJob(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CreateJob returns the scripted job identifier.
func (m *MockClient) CreateJob(ctx context.Context, targetURI string) (string, error) {
	args := m.Called(ctx, targetURI)
	return args.String(0), args.Error(1)
}

// Job returns the scripted job resource.
func (m *MockClient) Job(ctx context.Context, id string) (redfish.Job, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(redfish.Job), args.Error(1)
}

// PowerState returns the scripted power state.
func (m *MockClient) PowerState(ctx context.Context) (redfish.PowerState, error) {
	args := m.Called(ctx)
	return args.Get(0).(redfish.PowerState), args.Error(1)
}

// Reset records a reset action.
func (m *MockClient) Reset(ctx context.Context, resetType redfish.ResetType) error {
	args := m.Called(ctx, resetType)
	return args.Error(0)
}
