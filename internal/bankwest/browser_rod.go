package bankwest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"retrieve-bankmail/internal/models"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/sirupsen/logrus"
)

const profilePattern = "rod-bankmail-*"

// RodBrowser launches a local Chromium through rod with a throwaway profile
type RodBrowser struct {
	cfg models.BrowserConfig
	log *logrus.Entry
}

// NewRodBrowser creates a new instance of RodBrowser
func NewRodBrowser(cfg models.BrowserConfig, log *logrus.Entry) *RodBrowser {
	return &RodBrowser{cfg: cfg, log: log}
}

// Open launches the browser and opens a blank page. The returned Page owns the browser
// process and its profile directory; closing the page releases both.
func (rb *RodBrowser) Open(ctx context.Context) (Page, error) {
	tmpDir, err := os.MkdirTemp("", profilePattern)
	if err != nil {
		return nil, fmt.Errorf("creating browser profile dir: %w", err)
	}

	l := launcher.New().
		Context(ctx).
		Headless(!rb.cfg.Show).
		NoSandbox(rb.cfg.NoSandbox).
		UserDataDir(tmpDir)
	if rb.cfg.Bin != "" {
		l = l.Bin(rb.cfg.Bin)
	}

	p := &rodPage{launcher: l, tmpDir: tmpDir, log: rb.log}

	u, err := l.Launch()
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	p.launched = true

	p.browser = rod.New().ControlURL(u)
	if err := p.browser.Connect(); err != nil {
		p.browser = nil
		_ = p.Close()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	if rb.cfg.Stealth {
		p.page, err = stealth.Page(p.browser)
	} else {
		p.page, err = p.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	rb.log.Debugf("browser started (headless=%t, stealth=%t)", !rb.cfg.Show, rb.cfg.Stealth)
	return p, nil
}

type rodPage struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	tmpDir   string
	launched bool
	log      *logrus.Entry

	closeOnce sync.Once
	closeErr  error
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *rodPage) WaitElement(ctx context.Context, selector string) error {
	_, err := p.page.Context(ctx).Element(selector)
	return err
}

func (p *rodPage) Fill(ctx context.Context, selector, value string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

func (p *rodPage) Click(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) Text(ctx context.Context, selector string) (string, error) {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Close shuts the browser down and removes the profile directory. Safe to call more than once.
func (p *rodPage) Close() error {
	p.closeOnce.Do(func() {
		if p.browser != nil {
			if err := p.browser.Close(); err != nil {
				p.log.WithError(err).Warn("failed to close browser cleanly")
			}
		}
		// Kill and Cleanup are only meaningful once a process exists.
		if p.launched {
			p.launcher.Kill()
			p.launcher.Cleanup()
		}

		if err := os.RemoveAll(p.tmpDir); err != nil {
			p.log.WithError(err).Warn("failed to remove browser profile dir")
			p.closeErr = err
		}
		p.log.Debug("browser closed")
	})
	return p.closeErr
}

// SweepStaleProfiles removes profile directories left behind by runs that crashed before
// releasing their browser.
func SweepStaleProfiles(olderThan time.Duration, log *logrus.Entry) {
	pattern := filepath.Join(os.TempDir(), profilePattern)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		log.WithError(err).Warn("Failed to glob temp directories")
		return
	}

	cutoff := time.Now().Add(-olderThan)
	for _, dir := range matches {
		info, err := os.Stat(dir)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			log.WithError(err).Warnf("Failed to remove temp dir: %s", dir)
		} else {
			log.Debugf("Cleaned up temp dir: %s", dir)
		}
	}
}
