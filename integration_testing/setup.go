//go:build integration

package integration_testing

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/2beens/elitefitness/internal"
	"github.com/2beens/elitefitness/internal/config"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"golang.org/x/crypto/bcrypt"
)

const (
	serverPort = 9100
	serverHost = "127.0.0.1"

	minioUser     = "fitness"
	minioPassword = "fitness-secret"
	minioBucket   = "progress-photos"
)

var serverEndpoint = fmt.Sprintf("http://%s", net.JoinHostPort(serverHost, strconv.Itoa(serverPort)))

// Env runs the service against redis and minio containers.
type Env struct {
	dockerPool *dockertest.Pool
	server     *internal.Server
	config     *config.Config
	teardown   []func()
}

func newEnv(ctx context.Context) (_ *Env, err error) {
	env := &Env{}
	defer func() {
		if err != nil {
			env.cleanup()
		}
	}()

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	env.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}

	// uses pool to try to connect to Docker
	if err = env.dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	redisPort, err := env.redisSetup()
	if err != nil {
		return nil, fmt.Errorf("failed to setup redis: %w", err)
	}

	minioPort, err := env.minioSetup()
	if err != nil {
		return nil, fmt.Errorf("failed to setup minio: %w", err)
	}

	env.config = getTestConfig(redisPort, minioPort)
	env.server, err = internal.NewServer(ctx, internal.NewServerParams{
		Config: env.config,
		Secrets: config.Secrets{
			MinioAccessKey: minioUser,
			MinioSecretKey: minioPassword,
		},
		VersionInfo: "test-version-info",
	})
	if err != nil {
		return nil, fmt.Errorf("new server: %w", err)
	}

	env.server.Serve(ctx, env.config.Host, env.config.Port)

	if err := env.dockerPool.Retry(func() error {
		resp, err := http.Get(serverEndpoint + "/")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}); err != nil {
		return nil, fmt.Errorf("server not reachable: %w", err)
	}

	return env, nil
}

func (e *Env) cleanup() {
	if e.server != nil {
		e.server.GracefulShutdown()
	}
	for _, teardown := range e.teardown {
		teardown()
	}
}

func getTestConfig(redisPort, minioPort string) *config.Config {
	return &config.Config{
		Environment:                 "test",
		Host:                        serverHost,
		Port:                        serverPort,
		LogLevel:                    "debug",
		Storage:                     config.StorageRedis,
		CacheSizeMB:                 4,
		RedisHost:                   "localhost",
		RedisPort:                   redisPort,
		SessionTTLHours:             1,
		SessionCleanupSchedule:      "@every 1m",
		LoginRateLimitAllowedPerMin: 100,
		BcryptCost:                  bcrypt.MinCost,
		PhotoStorage:                config.PhotoStorageMinio,
		MaxPhotoBytes:               1 << 20,
		MinioEndpoint:               net.JoinHostPort("localhost", minioPort),
		MinioBucket:                 minioBucket,
		PrometheusMetricsHost:       serverHost,
		PrometheusMetricsPort:       strconv.Itoa(serverPort + 1),
	}
}

func (e *Env) redisSetup() (string, error) {
	redisResource, err := e.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %w", err)
	}

	e.teardown = append(e.teardown, func() {
		if err := redisResource.Close(); err != nil {
			log.Printf("redis teardown: %s", err)
		}
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (e *Env) minioSetup() (string, error) {
	minioResource, err := e.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Cmd:        []string{"server", "/data"},
		Env: []string{
			"MINIO_ROOT_USER=" + minioUser,
			"MINIO_ROOT_PASSWORD=" + minioPassword,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("run minio: %w", err)
	}

	e.teardown = append(e.teardown, func() {
		if err := minioResource.Close(); err != nil {
			log.Printf("minio teardown: %s", err)
		}
	})

	minioPort := minioResource.GetPort("9000/tcp")
	if err := e.dockerPool.Retry(func() error {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/minio/health/live", minioPort))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("minio not live: %d", resp.StatusCode)
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("wait for minio: %w", err)
	}

	return minioPort, nil
}
