package cmd

import (
	"testing"
)

func TestDeleteCmd(t *testing.T) {
	if deleteCmd.Use != "delete [task]" {
		t.Errorf("deleteCmd.Use = %q, want %q", deleteCmd.Use, "delete [task]")
	}
	if deleteCmd.Short != "Delete a task" {
		t.Errorf("deleteCmd.Short = %q, want %q", deleteCmd.Short, "Delete a task")
	}
	if deleteCmd.Flags().Lookup("yes") == nil {
		t.Error("deleteCmd should have --yes flag")
	}
}

// TestTaskCmds_ValidateArgs tests argument validation of the commands that
// take an optional task reference.
func TestTaskCmds_ValidateArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"no args", []string{}, false},
		{"one arg", []string{"task-123"}, false},
		{"two args", []string{"task-123", "task-456"}, true},
	}

	for _, c := range []struct {
		name string
		args func([]string) error
	}{
		{"delete", func(a []string) error { return deleteCmd.Args(deleteCmd, a) }},
		{"done", func(a []string) error { return doneCmd.Args(doneCmd, a) }},
		{"plan", func(a []string) error { return planCmd.Args(planCmd, a) }},
	} {
		for _, tt := range tests {
			t.Run(c.name+"/"+tt.name, func(t *testing.T) {
				err := c.args(tt.args)
				if tt.wantErr && err == nil {
					t.Error("expected error but got nil")
				}
				if !tt.wantErr && err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			})
		}
	}
}

func TestDoneCmd_CompleteAlias(t *testing.T) {
	found := false
	for _, alias := range doneCmd.Aliases {
		if alias == "complete" {
			found = true
		}
	}
	if !found {
		t.Error("done should keep the complete alias")
	}
}
