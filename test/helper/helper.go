package helper

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/chatsched/chatsched/app"
	"github.com/chatsched/chatsched/client"
	"github.com/chatsched/chatsched/config"
	"github.com/chatsched/chatsched/db"
	"github.com/chatsched/chatsched/db/migrator"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	adminListen  string
	statusListen string
	workDir      string
)

var (
	defaultEnvs map[string]string
	// set by the previous Start, cleared by the next one
	startEnvs []string
)

func init() {
	var err error
	workDir, err = os.MkdirTemp("", "chatsched-test-")
	if err != nil {
		panic(err)
	}
	adminListen = fmt.Sprintf("127.0.0.1:%d", FreePort())
	statusListen = fmt.Sprintf("127.0.0.1:%d", FreePort())

	defaultEnvs = map[string]string{
		"CHATSCHED_LOG_LEVEL":           "debug",
		"CHATSCHED_LOG_FORMAT":          "text",
		"CHATSCHED_LOG_FILE":            OutputPath("chatsched.log"),
		"CHATSCHED_ACCESS_LOG_FILE":     OutputPath("access.log"),
		"CHATSCHED_ADMIN_LISTEN":        adminListen,
		"CHATSCHED_STATUS_LISTEN":       statusListen,
		"CHATSCHED_DATABASE_DRIVER":     "sqlite",
		"CHATSCHED_DATABASE_FILE":       OutputPath("chatsched.db"),
		"CHATSCHED_WORKER_INTERVAL":     "100",
		"CHATSCHED_CLIENT_URL":          AdminURL(),
		"CHATSCHED_CLIENT_MOCK":         "false",
		"CHATSCHED_CLIENT_MOCK_LATENCY": "false",
	}
	SetEnvironments(defaultEnvs)
}

// FreePort returns a TCP port that was free a moment ago.
func FreePort() int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// OutputPath returns the path of a file in the per-process output directory.
func OutputPath(name string) string {
	return filepath.Join(workDir, name)
}

func AdminURL() string {
	return "http://" + adminListen
}

func StatusURL() string {
	return "http://" + statusListen
}

func LoadConfig() (*config.Config, error) {
	cfg := config.New()
	if err := config.Load("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Start starts chatsched with given environment variables
func Start(envs map[string]string) (*app.Application, error) {
	ClearEnvironments(startEnvs...)
	SetEnvironments(defaultEnvs)
	SetEnvironments(envs)
	startEnvs = startEnvs[:0]
	for name := range envs {
		if _, ok := defaultEnvs[name]; !ok {
			startEnvs = append(startEnvs, name)
		}
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.Log.File); err == nil {
		TruncateFile(cfg.Log.File)
	}

	app, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := app.Start(); err != nil {
		return nil, err
	}

	go app.Wait()

	if cfg.Admin.IsEnabled() {
		if err := waitForAdmin(5 * time.Second); err != nil {
			_ = app.Stop()
			return nil, err
		}
	}
	return app, nil
}

func MustStart(envs map[string]string) *app.Application {
	app, err := Start(envs)
	if err != nil {
		panic(err)
	}
	return app
}

func waitForAdmin(timeout time.Duration) error {
	c := AdminClient().SetTimeout(time.Second)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if resp, err := c.R().Get("/"); err == nil && resp.StatusCode() == 200 {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("admin is not ready after %s", timeout)
}

func AdminClient() *resty.Client {
	c := resty.New()
	c.SetBaseURL(AdminURL())
	return c
}

func StatusClient() *resty.Client {
	c := resty.New()
	c.SetBaseURL(StatusURL())
	return c
}

func Client() *client.HTTPClient {
	return client.NewHTTPClient(client.HTTPOptions{URL: AdminURL(), Timeout: 10 * time.Second})
}

// InitDB migrates the test database, dropping every table first when reset is true.
func InitDB(reset bool) *db.DB {
	if reset {
		if err := ResetDB(); err != nil {
			panic(err)
		}
	}

	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := migrator.New(&cfg.Database).Up(); err != nil {
		panic(err)
	}
	d, err := db.Open(cfg.Database, zap.NewNop().Sugar(), nil)
	if err != nil {
		panic(err)
	}
	return d
}

func ResetDB() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	migrator := migrator.New(&cfg.Database)
	err = migrator.Reset()
	if err != nil {
		return err
	}
	return migrator.Up()
}

func TruncateFile(filename string) {
	err := os.Truncate(filename, 0)
	if err != nil {
		panic("failed to truncate file: " + err.Error())
	}
}

func FileLine(filename string, n int) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for i := 1; scanner.Scan(); i++ {
		s := scanner.Text()
		if i == n {
			return s, nil
		}
	}

	return "", nil
}

func FileHasLine(filename string, regex string) (bool, error) {
	file, err := os.Open(filename)
	if err != nil {
		return false, err
	}
	defer file.Close()

	r, err := regexp.Compile(regex)
	if err != nil {
		return false, err
	}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if r.MatchString(line) {
			return true, nil
		}
	}

	return false, nil
}
