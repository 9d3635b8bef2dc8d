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

package statusui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/sabouaram/edgecore/upstream"
)

// tickMsg drives the periodic re-render; every tick re-captures src.
type tickMsg time.Time

// topModel is the bubbletea model backing `edgecored top`.
type topModel struct {
	src      Source
	interval time.Duration
	snap     Snapshot
	err      error
}

// NewTop returns a bubbletea program polling src every interval.
func NewTop(src Source, interval time.Duration) *tea.Program {
	return tea.NewProgram(topModel{src: src, interval: interval, snap: Capture(src)})
}

func (m topModel) Init() tea.Cmd {
	return m.tick()
}

func (m topModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m topModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		m.snap = Capture(m.src)
		return m, m.tick()
	}
	return m, nil
}

func (m topModel) View() string {
	var b strings.Builder

	header := color.New(color.FgCyan, color.Bold)
	header.Fprintln(&b, "edgecore — live status (q to quit)")

	fmt.Fprintf(&b, "connections: %d/%d in use, %d reusable\n",
		m.snap.Conn.InUse, m.snap.Conn.Size, m.snap.Conn.ReusableLen)

	for _, u := range m.snap.Upstreams {
		fmt.Fprintf(&b, "\nupstream %s\n", u.Name)
		for _, p := range u.Primary {
			writePeerLine(&b, p, "primary")
		}
		for _, p := range u.Backup {
			writePeerLine(&b, p, "backup")
		}
	}

	for _, c := range m.snap.Caches {
		fmt.Fprintf(&b, "\ncache %s: %d entries\n", c.Name, c.Entries)
	}

	return b.String()
}

func writePeerLine(b *strings.Builder, p upstream.PeerStat, tier string) {
	line := fmt.Sprintf("  [%s] %-22s weight=%-3d effective=%-3d current=%-4d fails=%-2d conns=%-2d",
		tier, p.Addr, p.Weight, p.EffectiveWeight, p.CurrentWeight, p.Fails, p.Conns)
	if p.Down {
		color.New(color.FgRed).Fprintln(b, line+" DOWN")
		return
	}
	fmt.Fprintln(b, line)
}
