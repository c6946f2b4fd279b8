package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/ojt-tracker/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Default images for disposable databases
const (
	MariaDBImage  = "mariadb:11.4"
	PostgresImage = "postgres:17-alpine"
)

// DBContainer is a running disposable database
type DBContainer struct {
	Container testcontainers.Container
	DBType    string
	Host      string
	Port      string
	Name      string
	User      string
	Password  string
}

// Apply points cfg at the container
func (d *DBContainer) Apply(cfg *config.Config) {
	cfg.DBType = d.DBType
	cfg.DBHost = d.Host
	cfg.DBPort = d.Port
	cfg.DBName = d.Name
	cfg.DBUser = d.User
	cfg.DBPassword = d.Password
}

// Env renders the container coordinates as .env lines
func (d *DBContainer) Env() string {
	return fmt.Sprintf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_NAME=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		d.DBType, d.Host, d.Port, d.Name, d.User, d.Password)
}

// Terminate stops and removes the container
func (d *DBContainer) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

// StartDatabase starts a mariadb, mysql or postgres container and waits for its port.
// An empty image selects the default for dbType.
func StartDatabase(ctx context.Context, dbType, image string) (*DBContainer, error) {
	d := &DBContainer{
		DBType:   dbType,
		Name:     "ojt_tracker",
		User:     "ojt",
		Password: "ojt-password",
	}

	var (
		portNumber string
		env        map[string]string
	)
	switch dbType {
	case "mariadb", "mysql":
		portNumber = "3306"
		if image == "" {
			image = MariaDBImage
		}
		env = map[string]string{
			"MARIADB_ROOT_PASSWORD": d.Password,
			"MARIADB_DATABASE":      d.Name,
			"MARIADB_USER":          d.User,
			"MARIADB_PASSWORD":      d.Password,
			"MYSQL_ROOT_PASSWORD":   d.Password,
			"MYSQL_DATABASE":        d.Name,
			"MYSQL_USER":            d.User,
			"MYSQL_PASSWORD":        d.Password,
		}
	case "postgres":
		portNumber = "5432"
		if image == "" {
			image = PostgresImage
		}
		env = map[string]string{
			"POSTGRES_DB":       d.Name,
			"POSTGRES_USER":     d.User,
			"POSTGRES_PASSWORD": d.Password,
		}
	default:
		return nil, fmt.Errorf("no container recipe for database type: %s", dbType)
	}

	tcpPort, err := nat.NewPort("tcp", portNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env:          env,
			WaitingFor:   wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", image, err)
	}
	d.Container = container

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}
	d.Host = host
	d.Port = mapped.Port()

	return d, nil
}
