package fontsource

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"go.uber.org/zap"
)

const fcListFormat = "%{file}\t%{index}\n"

// FontconfigRegistry lists fonts through fontconfig's fc-list.
type FontconfigRegistry struct {
	// Command is the fc-list executable; empty means "fc-list" from PATH.
	Command string
}

func (r FontconfigRegistry) command() string {
	if r.Command == "" {
		return "fc-list"
	}
	return r.Command
}

// Available reports whether the fc-list executable can be found.
func (r FontconfigRegistry) Available() bool {
	_, err := exec.LookPath(r.command())
	return err == nil
}

// ListAll runs fc-list and returns one handle per reported face.
func (r FontconfigRegistry) ListAll(ctx context.Context) ([]Handle, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.command(), "--format", fcListFormat)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("fc-list: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("fc-list: %w", err)
	}
	return parseFcList(out), nil
}

func parseFcList(out []byte) []Handle {
	var handles []Handle
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		path, indexStr, _ := strings.Cut(line, "\t")
		if !isScannable(path) {
			logger.Debug("Skipping non-sfnt font from fontconfig", zap.String("path", path))
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(indexStr))
		if err != nil || index < 0 {
			index = 0
		}
		// variable font instances are reported as index<<16 | face
		handles = append(handles, FileHandle(path, index&0xFFFF))
	}
	return handles
}
