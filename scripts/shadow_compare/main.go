// Command shadow_compare replays read-only requests against the legacy
// Express backend and this API, reporting status and payload differences.
// Volatile timestamp fields are masked before comparing, since both sides
// stamp them independently.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

var volatileFields = map[string]struct{}{
	"fecha_creacion":      {},
	"fecha_actualizacion": {},
}

type result struct {
	target       target
	legacyStatus int
	goStatus     int
	statusMatch  bool
	bodyMatch    bool
	err          error
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000", "Legacy Express API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var results []result
	breaking := 0

	for _, tgt := range targets {
		res := compare(client, goBase, legacyBase, tgt)
		if tgt.Critical && (res.err != nil || !res.statusMatch || !res.bodyMatch) {
			breaking++
		}
		results = append(results, res)
	}

	for _, res := range results {
		status := "OK"
		switch {
		case res.err != nil:
			status = "ERROR"
		case !res.statusMatch || !res.bodyMatch:
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s (go=%d legacy=%d)\n", status, res.target.Method, res.target.Path, res.goStatus, res.legacyStatus)
		if res.err != nil {
			fmt.Printf("  %v\n", res.err)
		}
	}

	fmt.Printf("Breaking diffs: %d of %d targets\n", breaking, len(targets))
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compare(client *http.Client, goBase, legacyBase string, tgt target) result {
	res := result{target: tgt}

	goBody, goStatus, err := fetch(client, goBase, tgt)
	if err != nil {
		res.err = fmt.Errorf("go request failed: %w", err)
		return res
	}
	legacyBody, legacyStatus, err := fetch(client, legacyBase, tgt)
	if err != nil {
		res.err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.goStatus = goStatus
	res.legacyStatus = legacyStatus
	res.statusMatch = goStatus == legacyStatus
	res.bodyMatch = bodiesEqual(goBody, legacyBody)
	return res
}

func fetch(client *http.Client, base string, tgt target) ([]byte, int, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	mask(&aj)
	mask(&bj)
	return reflect.DeepEqual(aj, bj)
}

func mask(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if _, volatile := volatileFields[k]; volatile {
				val[k] = nil
				continue
			}
			mask(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			mask(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}
