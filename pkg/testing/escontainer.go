package testing

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const esImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"

// ESContainer is a single-node Elasticsearch without security, for sink tests.
type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

// NewESContainer starts the node and registers its termination with tb.
// The node is ready once the cluster health reports at least yellow.
func NewESContainer(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()

	c, err := elasticsearch.Run(ctx, esImage,
		elasticsearch.WithPassword(""),
		testcontainers.WithEnv(map[string]string{
			"ES_JAVA_OPTS": "-Xms512m -Xmx512m",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_cluster/health?wait_for_status=yellow").
				WithPort("9200").
				WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("failed to start elasticsearch container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			tb.Logf("failed to terminate elasticsearch container: %v", err)
		}
	})

	endpoint, err := c.PortEndpoint(ctx, "9200/tcp", "http")
	if err != nil {
		tb.Fatalf("failed to resolve elasticsearch endpoint: %v", err)
	}

	return &ESContainer{
		Container: c,
		Address:   endpoint,
	}
}
