//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// screenArgs runs a fingerprint screening over the bundled test dataset.
var screenArgs = []string{
	"screen",
	"--dataset", "integration/testdata/actives.csv",
	"--ref-smiles", "CCO",
	"--threshold", "0.5",
}

// TestRetroscreenWithMySQL tests the retroscreen CLI with a MySQL run store.
func TestRetroscreenWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "retroscreen",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/retroscreen?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("RETROSCREEN_STORE_BACKEND", "mysql")
	_ = os.Setenv("RETROSCREEN_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("RETROSCREEN_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("RETROSCREEN_STORE_DB_CONNECT") }()

	// Run retroscreen runs clear
	err = runRetroscreenCommand(t, "runs", "clear")
	require.NoError(t, err)

	// Run a screening that records a run
	err = runRetroscreenCommand(t, screenArgs...)
	require.NoError(t, err)

	// Run retroscreen runs list
	err = runRetroscreenCommand(t, "runs", "list")
	require.NoError(t, err)

	// Run retroscreen runs status
	err = runRetroscreenCommand(t, "runs", "status")
	require.NoError(t, err)
}

// TestRetroscreenWithPostgres tests the retroscreen CLI with a PostgreSQL run store.
func TestRetroscreenWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	// Set environment variables
	_ = os.Setenv("RETROSCREEN_STORE_BACKEND", "postgresql")
	_ = os.Setenv("RETROSCREEN_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("RETROSCREEN_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("RETROSCREEN_STORE_DB_CONNECT") }()

	// Run retroscreen runs clear
	err = runRetroscreenCommand(t, "runs", "clear")
	require.NoError(t, err)

	// Run a screening that records a run
	err = runRetroscreenCommand(t, screenArgs...)
	require.NoError(t, err)

	// Run retroscreen runs list
	err = runRetroscreenCommand(t, "runs", "list")
	require.NoError(t, err)

	// Run retroscreen runs status
	err = runRetroscreenCommand(t, "runs", "status")
	require.NoError(t, err)
}

func runRetroscreenCommand(t *testing.T, args ...string) error {
	binaryPath := getRetroscreenBinary()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
