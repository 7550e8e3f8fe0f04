package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess

	// ErrTrayNotRunning means there is no live tray process to deliver to.
	ErrTrayNotRunning = errors.New(constants.TrayAppExecutable + " is not running")
)

// Sender delivers a desktop notification.
type Sender interface {
	Notify(ctx context.Context, text string) error
}

// Nop discards notifications. It is used when notifications are disabled.
type Nop struct{}

func (Nop) Notify(context.Context, string) error { return nil }

// Tray posts notifications to the focuslit tray app over its loopback webhook.
type Tray struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type lockfile struct {
	Port   int
	PID    int
	Secret string
}

func New() *Tray {
	return &Tray{
		client:     &http.Client{Timeout: 2 * time.Second},
		retries:    constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

// Notify sends text to the tray app. Delivery is retried on transport
// failures; a missing tray process fails immediately.
func (n *Tray) Notify(ctx context.Context, text string) error {
	lock, err := activeLockfile()
	if err != nil {
		return err
	}

	payload := WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs}

	var lastErr error
	for attempt := 0; attempt < n.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.retryDelay):
			}
		}
		if lastErr = n.send(ctx, lock, payload); lastErr == nil {
			return nil
		}
		logger.Debug("Notification attempt failed", "attempt", attempt+1, "error", lastErr)
	}
	return lastErr
}

func activeLockfile() (lockfile, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return lockfile{}, err
	}
	lock, err := readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return lockfile{}, err
	}
	if err := validateTrayProcess(lock.PID); err != nil {
		return lockfile{}, err
	}
	return lock, nil
}

// Running reports nil when the tray app is up and accepting notifications.
func Running() error {
	_, err := activeLockfile()
	return err
}

// GetTrayAppConfigDir returns the directory holding the tray lockfile. The
// tray app may relocate it through the lockfile_dir setting.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil &&
		store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return trayConfigDir, nil
}

// readLockfile parses the "port|pid|secret" lockfile written by the tray.
func readLockfile(path string) (lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return lockfile{}, ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return lockfile{}, errors.New("lockfile is malformed")
	}

	if strings.TrimSpace(parts[0]) == "" {
		return lockfile{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return lockfile{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return lockfile{}, errors.New("invalid process ID in lockfile")
	}

	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return lockfile{}, errors.New("secret in lockfile is empty")
	}

	return lockfile{Port: port, PID: pid, Secret: secret}, nil
}

func validateTrayProcess(pid int) error {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayAppExecutable) {
		return fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayAppExecutable, process.Executable())
	}
	return nil
}

func (n *Tray) send(ctx context.Context, lock lockfile, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", lock.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Focuslit-Secret", lock.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}
