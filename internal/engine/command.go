/**
 * Command engine - external OCR processes
 *
 * Runs an arbitrary OCR command line per page and captures stdout as the
 * hypothesis text. This is the bridge for backends that only ship as
 * standalone tools (easyocr, paddleocr wrappers and the like); the command
 * itself is an opaque collaborator.
 */

package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// imagePlaceholder is replaced with the page image path in command args.
const imagePlaceholder = "{image}"

// CommandEngine shells out to an external OCR tool for every page.
type CommandEngine struct {
	name    string
	command string
	args    []string
}

func newCommandEngine(spec Spec) (Engine, error) {
	command := spec.Params.String("command", "")
	if command == "" {
		return nil, fmt.Errorf("command engine requires params.command")
	}

	if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("OCR command not found: %w", err)
	}

	args := spec.Params.StringSlice("args", []string{imagePlaceholder})

	return &CommandEngine{
		name:    spec.Name,
		command: command,
		args:    args,
	}, nil
}

// Name returns the engine display name
func (c *CommandEngine) Name() string {
	return c.name
}

// Recognize runs the external command and returns its stdout
func (c *CommandEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	args := make([]string, len(c.args))
	for i, arg := range c.args {
		args[i] = strings.ReplaceAll(arg, imagePlaceholder, imagePath)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("OCR command %s failed: %w (stderr: %s)",
			c.command, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// Close is a no-op; each page ran in its own process
func (c *CommandEngine) Close() error {
	return nil
}
