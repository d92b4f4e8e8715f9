// Package redfish wraps the management controller's Redfish API behind a
// narrow client interface. The client issues single requests with HTTP basic
// authentication and returns typed failures; retry policy belongs to callers.
package redfish

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/stmcginnis/gofish"
	"github.com/stmcginnis/gofish/common"
)

// Client defines the read and write operations rackfish needs from a
// management controller.
type Client interface {
	// BIOSBootMode returns the Attributes.BootMode value of the BIOS resource.
	BIOSBootMode(ctx context.Context) (string, error)
	// BootDevices returns the boot sequence stored under the given attribute key.
	BootDevices(ctx context.Context, seqKey string) ([]BootDevice, error)
	// PatchBootOrder writes the full reordered device sequence to the
	// boot-sources settings resource.
	PatchBootOrder(ctx context.Context, seqKey string, devices []BootDevice) error
	// PatchOneTimeBoot sets the BIOS one-time boot attributes to boot the
	// given device on next start.
	PatchOneTimeBoot(ctx context.Context, device string) error
	// SetNextBootPXE sets a one-shot PXE boot override on the system resource.
	SetNextBootPXE(ctx context.Context) error
	// JobQueue returns the identifiers of all pending controller jobs.
	JobQueue(ctx context.Context) ([]string, error)
	// DeleteJob removes a single job from the controller's queue.
	DeleteJob(ctx context.Context, id string) error
	// CreateJob posts a configuration job for the given settings URI and
	// returns the identifier the controller assigned to it.
	CreateJob(ctx context.Context, targetURI string) (string, error)
	// Job reads a single job resource.
	Job(ctx context.Context, id string) (Job, error)
	// PowerState reads the system's current power state.
	PowerState(ctx context.Context) (PowerState, error)
	// Reset posts a ComputerSystem.Reset action.
	Reset(ctx context.Context, resetType ResetType) error
}

// Options configures a controller client.
type Options struct {
	Host     string
	Username string
	Password string
	// SkipTLSVerification disables certificate validation for this client
	// only. Managed hardware typically ships self-signed certificates.
	SkipTLSVerification bool
	// Timeout bounds each HTTP request. Zero selects DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds a single controller request. The bounded retry
// counts in the job and power state machines assume individual requests
// cannot hang forever.
const DefaultTimeout = 90 * time.Second

// StatusError is a protocol-level failure: the controller answered, but not
// with the status the operation expected. It carries the raw body for
// operator diagnostics.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: controller returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

type client struct {
	api *gofish.APIClient
}

// New connects to the controller at opts.Host and returns a Client. The
// connection probe fetches the service root, so an unreachable or
// misconfigured controller fails here rather than mid-flow.
func New(opts Options) (Client, error) {
	endpoint := opts.Host
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: opts.SkipTLSVerification, // #nosec G402
			},
		},
	}

	api, err := gofish.Connect(gofish.ClientConfig{
		Endpoint:   endpoint,
		Username:   opts.Username,
		Password:   opts.Password,
		BasicAuth:  true,
		Insecure:   opts.SkipTLSVerification,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to controller %s: %w", opts.Host, wrapTransport("connect", err))
	}

	return &client{api: api}, nil
}

// wrapTransport converts gofish's error for a non-2xx response into a
// StatusError so callers see the HTTP status and body uniformly.
func wrapTransport(op string, err error) error {
	var cerr *common.Error
	if errors.As(err, &cerr) {
		return &StatusError{Op: op, StatusCode: cerr.HTTPReturnedStatusCode, Body: cerr.Error()}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unexpectedStatus(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// get issues a GET expecting 200 and decodes the JSON body into out.
func (c *client) get(ctx context.Context, op, p string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := c.api.Get(p)
	if err != nil {
		return wrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

type attributesResource struct {
	Attributes map[string]json.RawMessage `json:"Attributes"`
}

func (c *client) BIOSBootMode(ctx context.Context) (string, error) {
	var bios attributesResource
	if err := c.get(ctx, "get bios", BIOSPath, &bios); err != nil {
		return "", err
	}

	raw, ok := bios.Attributes["BootMode"]
	if !ok {
		return "", fmt.Errorf("get bios: resource reports no BootMode attribute")
	}
	var mode string
	if err := json.Unmarshal(raw, &mode); err != nil {
		return "", fmt.Errorf("get bios: decoding BootMode: %w", err)
	}
	return mode, nil
}

func (c *client) BootDevices(ctx context.Context, seqKey string) ([]BootDevice, error) {
	var sources attributesResource
	if err := c.get(ctx, "get boot sources", BootSourcesPath, &sources); err != nil {
		return nil, err
	}

	raw, ok := sources.Attributes[seqKey]
	if !ok {
		return nil, fmt.Errorf("get boot sources: resource has no %q attribute", seqKey)
	}
	var devices []BootDevice
	if err := json.Unmarshal(raw, &devices); err != nil {
		return nil, fmt.Errorf("get boot sources: decoding %s: %w", seqKey, err)
	}
	return devices, nil
}

func (c *client) PatchBootOrder(ctx context.Context, seqKey string, devices []BootDevice) error {
	payload := map[string]interface{}{
		"Attributes": map[string][]BootDevice{seqKey: devices},
	}
	return c.patch(ctx, "patch boot order", BootSourcesSettingsPath, payload)
}

func (c *client) PatchOneTimeBoot(ctx context.Context, device string) error {
	payload := map[string]interface{}{
		"Attributes": map[string]string{
			"OneTimeBootMode":   "OneTimeBootSeq",
			"OneTimeBootSeqDev": device,
		},
	}
	return c.patch(ctx, "patch one-time boot", BIOSSettingsPath, payload)
}

func (c *client) SetNextBootPXE(ctx context.Context) error {
	payload := map[string]interface{}{
		"Boot": map[string]string{"BootSourceOverrideTarget": "Pxe"},
	}
	return c.patch(ctx, "set next boot pxe", SystemPath, payload)
}

// patch issues a PATCH expecting 200.
func (c *client) patch(ctx context.Context, op, p string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := c.api.Patch(p, payload)
	if err != nil {
		return wrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(op, resp)
	}
	return nil
}

type collection struct {
	Members []struct {
		OdataID string `json:"@odata.id"`
	} `json:"Members"`
}

func (c *client) JobQueue(ctx context.Context) ([]string, error) {
	var jobs collection
	if err := c.get(ctx, "get job queue", JobsPath, &jobs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(jobs.Members))
	for _, m := range jobs.Members {
		if id := path.Base(m.OdataID); id != "" && id != "." {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (c *client) DeleteJob(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := c.api.Delete(JobsPath + "/" + id)
	if err != nil {
		return wrapTransport("delete job", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return unexpectedStatus("delete job", resp)
	}
	return nil
}

// jobIDPattern matches iDRAC job identifiers wherever they appear in a
// creation response.
var jobIDPattern = regexp.MustCompile(`JID_[0-9A-Za-z_]+`)

func (c *client) CreateJob(ctx context.Context, targetURI string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resp, err := c.api.Post(JobsPath, map[string]string{"TargetSettingsURI": targetURI})
	if err != nil {
		return "", wrapTransport("create job", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", unexpectedStatus("create job", resp)
	}

	if id := jobIDPattern.FindString(resp.Header.Get("Location")); id != "" {
		return id, nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if id := jobIDPattern.FindString(string(body)); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("create job: no job identifier in controller response")
}

func (c *client) Job(ctx context.Context, id string) (Job, error) {
	var job struct {
		ID      string `json:"Id"`
		Message string `json:"Message"`
	}
	if err := c.get(ctx, "get job", JobsPath+"/"+id, &job); err != nil {
		return Job{}, err
	}

	if job.ID == "" {
		job.ID = id
	}
	return Job{ID: job.ID, Message: job.Message}, nil
}

func (c *client) PowerState(ctx context.Context) (PowerState, error) {
	var system struct {
		PowerState string `json:"PowerState"`
	}
	if err := c.get(ctx, "get system", SystemPath, &system); err != nil {
		return "", err
	}
	return PowerState(system.PowerState), nil
}

func (c *client) Reset(ctx context.Context, resetType ResetType) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := c.api.Post(ResetActionPath, map[string]string{"ResetType": string(resetType)})
	if err != nil {
		return wrapTransport("reset "+string(resetType), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return unexpectedStatus("reset "+string(resetType), resp)
	}
	return nil
}
