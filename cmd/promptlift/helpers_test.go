package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so that no
// .promptlift.yaml of the developer's checkout is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(strings.TrimLeft(content, "\n")), 0o644))
	return p
}

const baselineCSV = `
task_id,task_type,start_time,end_time,success,iterations,tokens_used,errors,method
b1,code,0,300,true,4,1000,lint|type,manual
b2,code,300,600,false,6,1400,lint,manual
b3,docs,600,800,true,2,600,,manual
`

const enhancedCSV = `
task_id,task_type,start_time,end_time,success,iterations,tokens_used,errors,method
e1,code,0,180,true,2,700,,generated
e2,code,180,360,true,3,900,lint,generated
`
