//go:build e2e

package e2e

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	pb "github.com/godilite/histogram-browser/api/v1"
	"github.com/godilite/histogram-browser/internal/app"
	"github.com/godilite/histogram-browser/internal/config"
	grpcsrv "github.com/godilite/histogram-browser/pkg/grpc/server"
	"github.com/godilite/histogram-browser/tests/e2e/mocks"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

var testIndexes = map[string]string{
	"234114": `{
		"202301": {"Finals": {"students": "120", "passFail": "100/20", "passPercent": "83%",
			"min": "12", "max": "100", "average": "72.25", "median": "74"}},
		"202302": {
			"Exam_A": {"students": "98", "average": "70.1"},
			"Exam_B": {"students": "40", "average": "55.5"}
		}
	}`,
	"104031": `{}`,
	"999999": `{"not": "an index"`,
}

type testServer struct {
	app    *app.App
	client pb.HistogramBrowserClient
	health healthpb.HealthClient
}

func startServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	application, err := app.NewApp(context.Background(), cfg, zaptest.NewLogger(t), grpcsrv.WithListener(lis))
	require.NoError(t, err)
	application.Start()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = application.Shutdown(ctx)
	})

	return &testServer{
		app:    application,
		client: pb.NewHistogramBrowserClient(conn),
		health: healthpb.NewHealthClient(conn),
	}
}

func testConfig(t *testing.T, site *mocks.HistogramSite, dbPath string) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:                "test",
		HistogramBaseURL:      site.URL,
		HistogramFetchTimeout: 2 * time.Second,
		HistogramLocale:       "en",
		SelectColumnGrid:      "md",
		SessionIdleTTL:        time.Hour,
		GateStore:             config.GateStoreSQLite,
		DBDriver:              "sqlite3",
		DBPath:                dbPath,
		GRPCPort:              50051,
		GRPCLoggingEnabled:    true,
	}
}

func req(session string, kv ...string) *structpb.Struct {
	fields := map[string]string{pb.FieldSession: session}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return pb.NewRequest(fields)
}

func TestBrowserE2E(t *testing.T) {
	site := mocks.NewHistogramSite(testIndexes)
	defer site.Close()
	dbPath := filepath.Join(t.TempDir(), "histograms.db")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv := startServer(t, testConfig(t, site, dbPath))

	t.Run("health", func(t *testing.T) {
		resp, err := srv.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
	})

	t.Run("load selects latest semester and category", func(t *testing.T) {
		resp, err := srv.client.LoadCourse(ctx, req("alice", pb.FieldCourse, "234114"))
		require.NoError(t, err)

		m := resp.AsMap()
		assert.Equal(t, "ready", m["status"])
		assert.Equal(t, "col-md-6", m["columnClass"])
		assert.Equal(t, false, m["activated"])
		assert.Equal(t, site.URL+"/234114/202302/Exam_B.png", m["imageUrl"])

		semesters := m["semesters"].([]any)
		require.Len(t, semesters, 2)
		last := semesters[1].(map[string]any)
		assert.Equal(t, "202302", last["value"])
		assert.Equal(t, true, last["selected"])
		assert.Equal(t, "Spring 2024\u00a0\u00a0\u00a0\u00a0\u00a0A 70.1\u00a0\u00a0B 55.5", last["text"])
	})

	t.Run("selection updates the detail row", func(t *testing.T) {
		resp, err := srv.client.SelectSemester(ctx, req("alice", pb.FieldSemester, "202301"))
		require.NoError(t, err)

		values := resp.AsMap()["values"].(map[string]any)
		assert.Equal(t, "120", values["students"])
		assert.Equal(t, "100/20", values["passFail"])
		assert.Equal(t, "74", values["median"])

		_, err = srv.client.SelectSemester(ctx, req("alice", pb.FieldSemester, "199901"))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("empty and failed courses", func(t *testing.T) {
		for course, want := range map[string]string{
			"104031": "empty",
			"000000": "empty",
			"999999": "failed",
		} {
			resp, err := srv.client.LoadCourse(ctx, req("bob", pb.FieldCourse, course))
			require.NoError(t, err)
			m := resp.AsMap()
			assert.Equal(t, want, m["status"], course)
			if want == "failed" {
				assert.Equal(t, site.URL+"/"+course+"/", m["fallbackUrl"])
			}
		}

		_, err := srv.client.SelectCategory(ctx, req("bob", pb.FieldCategory, "Finals"))
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	})

	t.Run("sharing is remembered per session", func(t *testing.T) {
		resp, err := srv.client.ShareAction(ctx, req("alice", pb.FieldAction, "snooze"))
		require.NoError(t, err)
		assert.Equal(t, true, resp.AsMap()["activated"])

		resp, err = srv.client.LoadCourse(ctx, req("carol", pb.FieldCourse, "234114"))
		require.NoError(t, err)
		assert.Equal(t, false, resp.AsMap()["activated"])
	})

	assert.Contains(t, site.Requests(), "/234114/index.json")
}

func TestBrowserE2E_GateSurvivesRestart(t *testing.T) {
	site := mocks.NewHistogramSite(testIndexes)
	defer site.Close()
	dbPath := filepath.Join(t.TempDir(), "histograms.db")
	cfg := testConfig(t, site, dbPath)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	first := startServer(t, cfg)
	_, err := first.client.LoadCourse(ctx, req("dana", pb.FieldCourse, "234114"))
	require.NoError(t, err)
	_, err = first.client.ShareAction(ctx, req("dana", pb.FieldAction, "activate"))
	require.NoError(t, err)
	require.NoError(t, first.app.Shutdown(ctx))

	second := startServer(t, cfg)
	resp, err := second.client.LoadCourse(ctx, req("dana", pb.FieldCourse, "234114"))
	require.NoError(t, err)
	assert.Equal(t, true, resp.AsMap()["activated"])
}

func TestBrowserE2E_MemoryStoreAndHebrew(t *testing.T) {
	site := mocks.NewHistogramSite(testIndexes)
	defer site.Close()
	cfg := testConfig(t, site, "")
	cfg.GateStore = config.GateStoreMemory
	cfg.HistogramLocale = "he"
	cfg.ShareGuideInNewWindow = true

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv := startServer(t, cfg)
	_, err := srv.client.LoadCourse(ctx, req("eli", pb.FieldCourse, "234114"))
	require.NoError(t, err)

	resp, err := srv.client.ShareAction(ctx, req("eli", pb.FieldAction, "open"))
	require.NoError(t, err)
	m := resp.AsMap()
	guide := m["guide"].(map[string]any)
	assert.Equal(t, "window", guide["mode"])
	assert.Equal(t, float64(800), guide["width"])

	categories := m["categories"].([]any)
	require.Len(t, categories, 2)
	assert.Equal(t, "מבחן מועד ב': 55.5", categories[1].(map[string]any)["text"])
}
