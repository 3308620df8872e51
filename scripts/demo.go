package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/golang/snappy"
)

// Demo metrics generator: pushes fake presence data for a handful of
// gamertags so Grafana dashboards can be built without a live monitor.

const (
	defaultNumUsers        = 10
	defaultIntervalSeconds = 60
	defaultPrometheusURL   = "http://localhost:9090/api/v1/write"
	defaultPrometheusUser  = "admin"
	defaultPrometheusPass  = "password"
)

// Status scale matches the monitor: offline=0, away=1, online=2
const (
	statusOffline = 0
	statusAway    = 1
	statusOnline  = 2
)

var (
	adjectives = []string{
		"Silent", "Crimson", "Turbo", "Frozen", "Lucky", "Shadow", "Neon",
		"Rusty", "Cosmic", "Savage", "Sneaky", "Golden", "Midnight", "Iron",
	}
	nouns = []string{
		"Wolf", "Falcon", "Bear", "Viking", "Ninja", "Pirate", "Knight",
		"Samurai", "Ranger", "Ghost", "Dragon", "Badger", "Raven", "Fox",
	}
	games = []string{
		"Sea of Thieves", "Halo Infinite", "Forza Horizon 5", "Minecraft",
		"Starfield", "Grounded", "Fallout 76", "Deep Rock Galactic",
	}
)

// Config holds the demo settings
type Config struct {
	NumUsers      int
	Interval      time.Duration
	PrometheusURL string
	Username      string
	Password      string
}

// loadConfig reads the settings from the environment
func loadConfig() *Config {
	cfg := &Config{
		NumUsers:      defaultNumUsers,
		Interval:      time.Duration(defaultIntervalSeconds) * time.Second,
		PrometheusURL: defaultPrometheusURL,
		Username:      defaultPrometheusUser,
		Password:      defaultPrometheusPass,
	}

	if url := os.Getenv("XBMON_PROMETHEUS_REMOTE_WRITE_URL"); url != "" {
		cfg.PrometheusURL = url
	}
	if user := os.Getenv("XBMON_PROMETHEUS_REMOTE_WRITE_USERNAME"); user != "" {
		cfg.Username = user
	}
	if pass := os.Getenv("XBMON_PROMETHEUS_REMOTE_WRITE_PASSWORD"); pass != "" {
		cfg.Password = pass
	}

	return cfg
}

// demoUser is one simulated identity with its presence state
type demoUser struct {
	gamertag        string
	status          int
	game            string
	polls           int64
	pollErrors      int64
	activitySeconds float64
	activityCount   int
}

func generateGamertag(rng *rand.Rand) string {
	adjective := adjectives[rng.Intn(len(adjectives))]
	noun := nouns[rng.Intn(len(nouns))]
	return fmt.Sprintf("%s%s%d", adjective, noun, rng.Intn(900)+100)
}

// step advances the user's presence by one poll. Most polls keep the
// status; transitions follow rough console usage patterns.
func (u *demoUser) step(interval time.Duration, rng *rand.Rand) {
	u.polls++
	if rng.Intn(50) == 0 {
		u.pollErrors++
		return
	}

	if u.status == statusOnline {
		u.activitySeconds += interval.Seconds()
	}

	roll := rng.Intn(100)
	switch u.status {
	case statusOffline:
		if roll < 8 {
			u.status = statusOnline
			u.game = games[rng.Intn(len(games))]
			u.activityCount++
		}
	case statusAway:
		if roll < 30 {
			u.status = statusOnline
		} else if roll < 45 {
			u.status = statusOffline
			u.activitySeconds = 0
			u.activityCount = 0
		}
	case statusOnline:
		if roll < 6 {
			u.status = statusOffline
			u.activitySeconds = 0
			u.activityCount = 0
		} else if roll < 12 {
			u.status = statusAway
		} else if roll < 16 {
			u.game = games[rng.Intn(len(games))]
			u.activityCount++
		}
	}
}

// writeRawVarint writes a raw varint value
func writeRawVarint(buf *bytes.Buffer, v uint64) {
	for v >= 0x80 {
		buf.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	buf.WriteByte(byte(v))
}

// writeFieldWithData writes a field number and wire type followed by length-delimited data
func writeFieldWithData(buf *bytes.Buffer, fieldNum int, wireType int, data []byte) {
	key := (fieldNum << 3) | wireType
	writeRawVarint(buf, uint64(key))
	writeRawVarint(buf, uint64(len(data)))
	buf.Write(data)
}

// writeString writes a string field
func writeString(buf *bytes.Buffer, fieldNum int, s string) {
	key := (fieldNum << 3) | 2 // wire type 2 for string
	writeRawVarint(buf, uint64(key))
	writeRawVarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

// writeFixed64 writes a fixed64 field
func writeFixed64(buf *bytes.Buffer, fieldNum int, v uint64) {
	key := (fieldNum << 3) | 1 // wire type 1 for fixed64
	writeRawVarint(buf, uint64(key))
	_ = binary.Write(buf, binary.LittleEndian, v)
}

// writeVarint writes a varint field
func writeVarint(buf *bytes.Buffer, fieldNum int, v int64) {
	key := fieldNum << 3 // wire type 0 for varint
	writeRawVarint(buf, uint64(key))
	writeRawVarint(buf, uint64(v))
}

// encodeLabel encodes a single Label
func encodeLabel(name, value string) []byte {
	var buf bytes.Buffer
	writeString(&buf, 1, name)
	writeString(&buf, 2, value)
	return buf.Bytes()
}

// encodeSample encodes a single Sample
func encodeSample(value float64, timestamp int64) []byte {
	var buf bytes.Buffer
	writeFixed64(&buf, 1, math.Float64bits(value))
	writeVarint(&buf, 2, timestamp)
	return buf.Bytes()
}

// encodeTimeSeries encodes a single TimeSeries. Prometheus rejects series
// whose labels are not sorted by name.
func encodeTimeSeries(labels map[string]string, value float64, timestamp int64) []byte {
	var buf bytes.Buffer

	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	// Field 1: labels (repeated)
	for _, name := range names {
		labelData := encodeLabel(name, labels[name])
		writeFieldWithData(&buf, 1, 2, labelData)
	}

	// Field 2: samples (repeated)
	sampleData := encodeSample(value, timestamp)
	writeFieldWithData(&buf, 2, 2, sampleData)

	return buf.Bytes()
}

// encodeWriteRequest manually encodes a WriteRequest into protobuf format
func encodeWriteRequest(metricName string, value float64, labels map[string]string, timestamp int64) ([]byte, error) {
	var buf bytes.Buffer

	allLabels := make(map[string]string)
	allLabels["__name__"] = metricName
	for k, v := range labels {
		allLabels[k] = v
	}

	// Field 1: timeseries (repeated)
	timeseriesData := encodeTimeSeries(allLabels, value, timestamp)
	writeFieldWithData(&buf, 1, 2, timeseriesData)

	return buf.Bytes(), nil
}

// sendMetric pushes one sample to the Prometheus Remote Write API
func sendMetric(ctx context.Context, cfg *Config, gamertag, metricName string, value float64, timestamp int64) error {
	labels := map[string]string{
		"host":     "xbmon-demo",
		"gamertag": gamertag,
		"demo":     "true",
	}

	data, err := encodeWriteRequest(metricName, value, labels, timestamp)
	if err != nil {
		return fmt.Errorf("failed to encode write request: %w", err)
	}

	compressed := snappy.Encode(nil, data)

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.PrometheusURL, bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-protobuf")
	req.Header.Set("Content-Encoding", "snappy")
	req.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")

	auth := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
	req.Header.Set("Authorization", "Basic "+auth)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("[WARN] failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("remote write failed with status %d", resp.StatusCode)
	}

	return nil
}

// sendUserMetrics pushes the full metric set for one simulated user
func sendUserMetrics(ctx context.Context, cfg *Config, u *demoUser, timestamp int64) error {
	samples := []struct {
		name  string
		value float64
	}{
		{"xbmon_presence_status", float64(u.status)},
		{"xbmon_polls_total", float64(u.polls)},
		{"xbmon_poll_errors_total", float64(u.pollErrors)},
		{"xbmon_session_activity_seconds", u.activitySeconds},
		{"xbmon_session_activity_count", float64(u.activityCount)},
	}

	for _, s := range samples {
		if err := sendMetric(ctx, cfg, u.gamertag, s.name, s.value, timestamp); err != nil {
			return err
		}
	}
	return nil
}

// sendMetricsBatch advances every user by one poll and pushes the batch
func sendMetricsBatch(ctx context.Context, cfg *Config, users []*demoUser, iteration int, rng *rand.Rand) {
	timestamp := time.Now().UnixMilli()
	log.Printf("[INFO] batch %d: sending metrics (%s)", iteration, time.Now().Format(time.RFC3339))

	for _, u := range users {
		u.step(cfg.Interval, rng)
	}

	var wg sync.WaitGroup
	successCount := 0
	failCount := 0
	var mu sync.Mutex

	// Bounded parallelism
	sem := make(chan struct{}, 10)

	for _, u := range users {
		wg.Add(1)
		go func(u *demoUser) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := sendUserMetrics(ctx, cfg, u, timestamp); err != nil {
				log.Printf("[WARN] push failed for %s: %v", u.gamertag, err)
				mu.Lock()
				failCount++
				mu.Unlock()
				return
			}

			log.Printf("[DEBUG] pushed %s: status=%d polls=%d", u.gamertag, u.status, u.polls)
			mu.Lock()
			successCount++
			mu.Unlock()
		}(u)
	}

	wg.Wait()
	log.Printf("[INFO] batch %d: done - ok: %d, failed: %d", iteration, successCount, failCount)
}

func main() {
	log.SetFlags(log.Ltime)
	log.Println("[INFO] xbmon demo metrics generator")

	cfg := loadConfig()
	log.Printf("[INFO] Prometheus URL: %s", cfg.PrometheusURL)
	log.Printf("[INFO] users: %d", cfg.NumUsers)
	log.Printf("[INFO] interval: %v", cfg.Interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("[INFO] stopping demo...")
		cancel()
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*demoUser, cfg.NumUsers)
	for i := range users {
		users[i] = &demoUser{
			gamertag: generateGamertag(rng),
			status:   statusOffline,
		}
	}
	log.Printf("[INFO] generated %d gamertags", cfg.NumUsers)

	log.Println("[INFO] sending demo metrics, Ctrl+C to stop")

	iteration := 1
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	// First batch goes out immediately
	sendMetricsBatch(ctx, cfg, users, iteration, rng)
	iteration++

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sendMetricsBatch(ctx, cfg, users, iteration, rng)
			iteration++
			log.Printf("[INFO] next batch in %v", cfg.Interval)
		}
	}
}
