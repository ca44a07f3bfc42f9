package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spotdemo4/mojo-chat/internal/logging"
	"github.com/spotdemo4/mojo-chat/internal/tui"
	"github.com/spotdemo4/mojo-chat/internal/typing"
)

const (
	defaultURL     = "http://localhost:5000"
	defaultTimeout = 5 * time.Minute
	headerPrefix   = "MC_HEADER_"
)

type config struct {
	url            *url.URL
	headers        map[string]string
	typingInterval time.Duration
	timeout        time.Duration
	logFile        string
	logLevel       string
	export         string
}

// flags holds the raw command line values. They only win over the
// environment when set explicitly.
type flags struct {
	url            string
	headers        []string
	typingInterval time.Duration
	timeout        time.Duration
	export         string
	logFile        string
	logLevel       string
}

func (f *flags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.url, "url", defaultURL, "chat server base url")
	pf.StringArrayVar(&f.headers, "header", nil, "extra request header as key=value (repeatable)")
	pf.DurationVar(&f.typingInterval, "typing-interval", typing.DefaultInterval, "delay between revealed characters")
	pf.DurationVar(&f.timeout, "timeout", defaultTimeout, "how long to wait for the server to start answering")
	pf.StringVar(&f.export, "export", "", "write the transcript as html to this file on exit")
	pf.StringVar(&f.logFile, "log-file", "", "log file path")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level")
}

func getConfig(cmd *cobra.Command, f *flags) (c config, err error) {
	// Get .env file
	configDir, err := os.UserConfigDir()
	if err != nil {
		tui.PrintWarn("could not get config dir: %v", err)
	} else {
		path := filepath.Join(configDir, "mojo-chat.env")
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			tui.PrintWarn("could not load %s: %v", path, err)
		}
	}

	// Get env vars
	urlStr := os.Getenv("MC_URL")
	if urlStr == "" || changed(cmd, "url") {
		urlStr = f.url
	}
	c.url, err = url.Parse(urlStr)
	if err != nil {
		return c, fmt.Errorf("could not parse url: %w", err)
	}
	if c.url.Scheme == "" || c.url.Host == "" {
		return c, fmt.Errorf("url %q must be absolute", urlStr)
	}

	c.typingInterval = f.typingInterval
	if v := os.Getenv("MC_TYPING_INTERVAL"); v != "" && !changed(cmd, "typing-interval") {
		d, err := time.ParseDuration(v)
		if err != nil {
			tui.PrintWarn("invalid value for 'MC_TYPING_INTERVAL': %v", err)
		} else {
			c.typingInterval = d
		}
	}

	c.timeout = f.timeout
	if v := os.Getenv("MC_TIMEOUT"); v != "" && !changed(cmd, "timeout") {
		d, err := time.ParseDuration(v)
		if err != nil {
			tui.PrintWarn("invalid value for 'MC_TIMEOUT': %v", err)
		} else {
			c.timeout = d
		}
	}

	c.logFile = f.logFile
	if v := os.Getenv("MC_LOG_FILE"); v != "" && !changed(cmd, "log-file") {
		c.logFile = v
	}
	if c.logFile == "" {
		c.logFile, err = logging.DefaultPath()
		if err != nil {
			return c, err
		}
	}

	c.logLevel = f.logLevel
	if v := os.Getenv("MC_LOG_LEVEL"); v != "" && !changed(cmd, "log-level") {
		c.logLevel = v
	}

	c.export = f.export

	// Get headers
	c.headers = map[string]string{}
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, headerPrefix) {
			continue
		}

		kv := strings.SplitN(e, "=", 2)
		if len(kv) != 2 {
			continue
		}

		c.headers[strings.TrimPrefix(kv[0], headerPrefix)] = kv[1]
	}
	for _, h := range f.headers {
		k, v, ok := strings.Cut(h, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return c, fmt.Errorf("invalid header %q, expected key=value", h)
		}

		c.headers[strings.TrimSpace(k)] = v
	}

	return c, nil
}

func changed(cmd *cobra.Command, name string) bool {
	fl := cmd.Flags().Lookup(name)
	return fl != nil && fl.Changed
}
