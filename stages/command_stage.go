package stages

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/initializ/pkgforge/pipeline"
)

// CommandStage runs an external command in the project folder. Arguments may
// use the placeholders {name}, {version}, {projectFolder}, {projectFile} and
// {targetFolder}.
type CommandStage struct {
	StageName string
	Command   []string
}

func newCompileStage(opts map[string]any) (pipeline.Stage, error) {
	command, err := stringsOpt(opts, "command", []string{"tsc", "-p", "{projectFile}"})
	if err != nil {
		return nil, err
	}
	if len(command) == 0 {
		return nil, fmt.Errorf("option command must not be empty")
	}
	return &CommandStage{StageName: "compile", Command: command}, nil
}

func newExecStage(opts map[string]any) (pipeline.Stage, error) {
	command, err := stringsOpt(opts, "command", nil)
	if err != nil {
		return nil, err
	}
	if len(command) == 0 {
		return nil, fmt.Errorf("option command is required")
	}
	return &CommandStage{StageName: "exec", Command: command}, nil
}

func (s *CommandStage) Name() string { return s.StageName }

func (s *CommandStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	replacer := strings.NewReplacer(
		"{name}", bc.Name,
		"{version}", bc.Version,
		"{projectFolder}", bc.ProjectFolder,
		"{projectFile}", bc.ProjectFile,
		"{targetFolder}", bc.TargetFolder,
	)
	argv := make([]string, len(s.Command))
	for i, a := range s.Command {
		argv[i] = replacer.Replace(a)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = bc.ProjectFolder
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w\n%s", argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
