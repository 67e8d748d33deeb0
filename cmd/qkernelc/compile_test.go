package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const valuesPlan = `{
  "rels": [
    {
      "id": "0",
      "relOp": "LogicalValues",
      "rowType": [
        {"name": "a", "type": "BIGINT", "nullable": false},
        {"name": "b", "type": "BIGINT", "nullable": false}
      ],
      "inputsRows": [
        [{"literal": 2}, {"literal": 3}],
        [{"literal": 10}, {"literal": 4}]
      ]
    },
    {
      "id": "1",
      "relOp": "LogicalProject",
      "inputs": ["0"],
      "fields": ["sum"],
      "exprs": [
        {"op": "+", "operands": [
          {"input": 0},
          {"input": 1}
        ]}
      ]
    }
  ]
}`

func writePlanFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunCompilePrintsColumnsAndEvaluatesValues(t *testing.T) {
	path := writePlanFile(t, valuesPlan)
	var out bytes.Buffer

	err := runCompile(&out, compileOptions{planPath: path, run: true})
	require.NoError(t, err)

	output := out.String()
	require.Contains(t, output, "Project(sum)")
	require.Contains(t, output, "LogicalValues(2 rows)")
	require.Contains(t, output, `column 0 "sum"`)
	require.Contains(t, output, "sum = 5")
	require.Contains(t, output, "sum = 14")
}

func TestRunCompileWithoutRunSkipsEvaluation(t *testing.T) {
	path := writePlanFile(t, valuesPlan)
	var out bytes.Buffer

	err := runCompile(&out, compileOptions{planPath: path})
	require.NoError(t, err)
	require.NotContains(t, out.String(), "sum = 5")
}

func TestRunCompileMissingTableErrors(t *testing.T) {
	path := writePlanFile(t, `{"rels": [{"id": "0", "relOp": "LogicalTableScan", "table": ["db", "missing"]}]}`)
	var out bytes.Buffer

	err := runCompile(&out, compileOptions{planPath: path})
	require.Error(t, err)
}
