/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package alerting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matcornic/hermes/v2"
	mailrender "github.com/sabouaram/edgecore/mail/render"
	mailsmtp "github.com/sabouaram/edgecore/mail/smtp"
)

// window tracks one worker slot's respawn timestamps within the configured
// look-back period.
type window struct {
	events []time.Time
}

// Alerter watches the supervisor's per-slot respawn counters and notifies
// an operator email list once a slot crosses Threshold respawns inside
// Window.
type Alerter struct {
	mu sync.Mutex

	SMTP      mailsmtp.SMTP
	Threshold int
	Window    time.Duration
	From      string
	To        []string
	ProductName string

	slots map[int]*window
}

// NewAlerter returns an Alerter with the given delivery client and
// crash-loop thresholds.
func NewAlerter(smtp mailsmtp.SMTP, threshold int, win time.Duration, from string, to []string) *Alerter {
	return &Alerter{
		SMTP:      smtp,
		Threshold: threshold,
		Window:    win,
		From:      from,
		To:        to,
		slots:     make(map[int]*window),
	}
}

// Respawned records one respawn of the worker at slot and sends a
// crash-loop alert once the rolling count exceeds Threshold. Called from
// the supervisor's SIGCHLD handler after it decides to respawn (spec.md
// §4.1's "reap" action), never from inside the event loop.
func (a *Alerter) Respawned(ctx context.Context, slot int, reason string) error {
	now := time.Now()

	a.mu.Lock()
	w, ok := a.slots[slot]
	if !ok {
		w = &window{}
		a.slots[slot] = w
	}
	w.events = append(w.events, now)
	cutoff := now.Add(-a.Window)
	kept := w.events[:0]
	for _, t := range w.events {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.events = kept
	count := len(w.events)
	a.mu.Unlock()

	if count < a.Threshold {
		return nil
	}
	return a.notify(ctx, slot, count, reason)
}

func (a *Alerter) notify(ctx context.Context, slot, count int, reason string) error {
	mailer := mailrender.New()
	mailer.SetName(a.ProductName)
	mailer.SetBody(&hermes.Body{
		Title: fmt.Sprintf("Worker slot %d is crash-looping", slot),
		Intros: []string{
			fmt.Sprintf("Worker slot %d respawned %d times in the last %s.", slot, count, a.Window),
			fmt.Sprintf("Last exit reason: %s", reason),
		},
	})

	buf, err := mailer.GenerateHTML()
	if err != nil {
		return ErrorRenderFailed.Error(err)
	}

	if sendErr := a.SMTP.Send(ctx, a.From, a.To, buf); sendErr != nil {
		return ErrorSendFailed.Error(sendErr)
	}
	return nil
}
