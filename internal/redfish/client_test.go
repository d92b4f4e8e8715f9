package redfish

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeController is a minimal iDRAC-flavored Redfish endpoint.
type fakeController struct {
	mu sync.Mutex

	powerState   string
	bootMode     string
	bootSeqKey   string
	devices      []BootDevice
	jobIDs       []string
	jobMessages  map[string]string
	createStatus int
	resetStatus  int

	patchedBootOrder map[string]json.RawMessage
	patchedBIOS      map[string]json.RawMessage
	resetTypes       []string
	deletedJobs      []string
	sawBasicAuth     bool
}

func newFakeController() *fakeController {
	return &fakeController{
		powerState:   "On",
		bootMode:     "Uefi",
		bootSeqKey:   UefiBootSeqKey,
		jobMessages:  map[string]string{},
		createStatus: http.StatusOK,
		resetStatus:  http.StatusNoContent,
	}
}

func (f *fakeController) handler() http.Handler {
	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if _, _, ok := r.BasicAuth(); ok {
			f.sawBasicAuth = true
		}

		switch {
		case r.URL.Path == "/redfish/v1/" || r.URL.Path == "/redfish/v1":
			writeJSON(w, map[string]interface{}{
				"@odata.id": "/redfish/v1/",
				"Id":        "RootService",
				"Name":      "Root Service",
			})

		case r.URL.Path == SystemPath && r.Method == http.MethodGet:
			writeJSON(w, map[string]string{"PowerState": f.powerState})

		case r.URL.Path == BIOSPath && r.Method == http.MethodGet:
			writeJSON(w, map[string]interface{}{
				"Attributes": map[string]string{"BootMode": f.bootMode},
			})

		case r.URL.Path == BootSourcesPath && r.Method == http.MethodGet:
			writeJSON(w, map[string]interface{}{
				"Attributes": map[string]interface{}{f.bootSeqKey: f.devices},
			})

		case r.URL.Path == BootSourcesSettingsPath && r.Method == http.MethodPatch:
			var body struct {
				Attributes map[string]json.RawMessage `json:"Attributes"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.patchedBootOrder = body.Attributes
			writeJSON(w, map[string]string{})

		case r.URL.Path == BIOSSettingsPath && r.Method == http.MethodPatch:
			var body struct {
				Attributes map[string]json.RawMessage `json:"Attributes"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.patchedBIOS = body.Attributes
			writeJSON(w, map[string]string{})

		case r.URL.Path == JobsPath && r.Method == http.MethodGet:
			members := make([]map[string]string, 0, len(f.jobIDs))
			for _, id := range f.jobIDs {
				members = append(members, map[string]string{"@odata.id": JobsPath + "/" + id})
			}
			writeJSON(w, map[string]interface{}{"Members": members})

		case r.URL.Path == JobsPath && r.Method == http.MethodPost:
			if f.createStatus != http.StatusOK {
				w.WriteHeader(f.createStatus)
				_, _ = w.Write([]byte(`{"error":"job creation rejected"}`))
				return
			}
			w.Header().Set("Location", JobsPath+"/JID_123456789012")
			writeJSON(w, map[string]string{})

		case len(r.URL.Path) > len(JobsPath) && r.URL.Path[:len(JobsPath)] == JobsPath && r.Method == http.MethodDelete:
			f.deletedJobs = append(f.deletedJobs, r.URL.Path[len(JobsPath)+1:])
			writeJSON(w, map[string]string{})

		case len(r.URL.Path) > len(JobsPath) && r.URL.Path[:len(JobsPath)] == JobsPath && r.Method == http.MethodGet:
			id := r.URL.Path[len(JobsPath)+1:]
			msg, ok := f.jobMessages[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"no such job"}`))
				return
			}
			writeJSON(w, map[string]string{"Id": id, "Message": msg})

		case r.URL.Path == ResetActionPath && r.Method == http.MethodPost:
			var body struct {
				ResetType string `json:"ResetType"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.resetTypes = append(f.resetTypes, body.ResetType)
			w.WriteHeader(f.resetStatus)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T, f *fakeController) Client {
	t.Helper()

	server := httptest.NewTLSServer(f.handler())
	t.Cleanup(server.Close)

	client, err := New(Options{
		Host:                server.URL,
		Username:            "root",
		Password:            "calvin",
		SkipTLSVerification: true,
	})
	require.NoError(t, err)
	return client
}

func TestNew_SendsBasicAuth(t *testing.T) {
	f := newFakeController()
	client := newTestClient(t, f)

	_, err := client.PowerState(context.Background())
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.True(t, f.sawBasicAuth)
}

func TestPowerState(t *testing.T) {
	f := newFakeController()
	f.powerState = "Off"
	client := newTestClient(t, f)

	state, err := client.PowerState(context.Background())

	require.NoError(t, err)
	assert.Equal(t, PowerOff, state)
}

func TestBIOSBootMode(t *testing.T) {
	f := newFakeController()
	client := newTestClient(t, f)

	mode, err := client.BIOSBootMode(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Uefi", mode)
}

func TestBootDevices(t *testing.T) {
	f := newFakeController()
	f.devices = []BootDevice{
		{ID: "BIOS.Setup.1-1#UefiBootSeq#NIC.Integrated.1-2-1", Name: "NIC.Integrated.1-2-1", Enabled: true, Index: 0},
		{ID: "BIOS.Setup.1-1#UefiBootSeq#HardDisk.List.1-1", Name: "HardDisk.List.1-1", Enabled: true, Index: 1},
	}
	client := newTestClient(t, f)

	devices, err := client.BootDevices(context.Background(), UefiBootSeqKey)

	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "NIC.Integrated.1-2-1", devices[0].Name)
	assert.True(t, devices[0].Enabled)
	assert.Equal(t, 1, devices[1].Index)
}

func TestBootDevices_MissingSequenceKey(t *testing.T) {
	f := newFakeController()
	client := newTestClient(t, f)

	_, err := client.BootDevices(context.Background(), BootSeqKey)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"BootSeq"`)
}

func TestPatchBootOrder(t *testing.T) {
	f := newFakeController()
	client := newTestClient(t, f)

	devices := []BootDevice{
		{Name: "NIC.Integrated.1-2-1", Enabled: true, Index: 0},
		{Name: "HardDisk.List.1-1", Enabled: true, Index: 1},
	}
	err := client.PatchBootOrder(context.Background(), UefiBootSeqKey, devices)

	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.patchedBootOrder[UefiBootSeqKey]
	require.True(t, ok, "patch should target the %s attribute", UefiBootSeqKey)

	var sent []BootDevice
	require.NoError(t, json.Unmarshal(raw, &sent))
	assert.Equal(t, devices, sent)
}

func TestPatchOneTimeBoot(t *testing.T) {
	f := newFakeController()
	client := newTestClient(t, f)

	err := client.PatchOneTimeBoot(context.Background(), "NIC.Integrated.1-3-1")

	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	var mode, dev string
	require.NoError(t, json.Unmarshal(f.patchedBIOS["OneTimeBootMode"], &mode))
	require.NoError(t, json.Unmarshal(f.patchedBIOS["OneTimeBootSeqDev"], &dev))
	assert.Equal(t, "OneTimeBootSeq", mode)
	assert.Equal(t, "NIC.Integrated.1-3-1", dev)
}

func TestJobQueue(t *testing.T) {
	f := newFakeController()
	f.jobIDs = []string{"JID_1", "JID_2"}
	client := newTestClient(t, f)

	ids, err := client.JobQueue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"JID_1", "JID_2"}, ids)
}

func TestCreateJob_ExtractsIDFromLocation(t *testing.T) {
	f := newFakeController()
	client := newTestClient(t, f)

	id, err := client.CreateJob(context.Background(), BIOSSettingsPath)

	require.NoError(t, err)
	assert.Equal(t, "JID_123456789012", id)
}

func TestCreateJob_Rejected(t *testing.T) {
	f := newFakeController()
	f.createStatus = http.StatusBadRequest
	client := newTestClient(t, f)

	_, err := client.CreateJob(context.Background(), BIOSSettingsPath)

	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}

func TestJob(t *testing.T) {
	f := newFakeController()
	f.jobMessages["JID_1"] = "Task successfully scheduled."
	client := newTestClient(t, f)

	job, err := client.Job(context.Background(), "JID_1")

	require.NoError(t, err)
	assert.Equal(t, "JID_1", job.ID)
	assert.Equal(t, ScheduledMessage, job.Message)
}

func TestJob_NotFound(t *testing.T) {
	f := newFakeController()
	client := newTestClient(t, f)

	_, err := client.Job(context.Background(), "JID_missing")

	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestDeleteJob(t *testing.T) {
	f := newFakeController()
	client := newTestClient(t, f)

	err := client.DeleteJob(context.Background(), "JID_9")

	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []string{"JID_9"}, f.deletedJobs)
}

func TestReset(t *testing.T) {
	f := newFakeController()
	client := newTestClient(t, f)

	err := client.Reset(context.Background(), ResetGracefulRestart)

	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []string{"GracefulRestart"}, f.resetTypes)
}

func TestReset_UnexpectedStatus(t *testing.T) {
	f := newFakeController()
	f.resetStatus = http.StatusConflict
	client := newTestClient(t, f)

	err := client.Reset(context.Background(), ResetOn)

	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
}

func TestSetNextBootPXE(t *testing.T) {
	override := ""
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/redfish/v1/" || r.URL.Path == "/redfish/v1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"@odata.id":"/redfish/v1/","Id":"RootService"}`))
		case r.URL.Path == SystemPath && r.Method == http.MethodPatch:
			var body struct {
				Boot struct {
					BootSourceOverrideTarget string `json:"BootSourceOverrideTarget"`
				} `json:"Boot"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			override = body.Boot.BootSourceOverrideTarget
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client, err := New(Options{Host: server.URL, Username: "root", Password: "calvin", SkipTLSVerification: true})
	require.NoError(t, err)

	require.NoError(t, client.SetNextBootPXE(context.Background()))
	assert.Equal(t, "Pxe", override)
}
