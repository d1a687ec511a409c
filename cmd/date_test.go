/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"strings"
	"testing"
	"time"
)

func TestParseDateArg_year(t *testing.T) {
	doTestParseDateArg(t, "2020", "2021", "2006")
}

func TestParseDateArg_month(t *testing.T) {
	doTestParseDateArg(t, "2020-01", "2020-02", "2006-01")
}

func TestParseDateArg_day(t *testing.T) {
	doTestParseDateArg(t, "2020-01-01", "2020-01-02", "2006-01-02")
}

func TestParseDateArg_invalid(t *testing.T) {
	tooMany := "2020-01-0123"
	_, _, err := parseDateArg(tooMany)
	if err == nil {
		t.Fatalf("Expected error parsing %q", tooMany)
	}
	if !strings.Contains(err.Error(), "invalid date format") {
		t.Fatalf("Should have error with invalid date format: %v", err)
	}

	letters := "not_real"
	_, _, err = parseDateArg(letters)
	if err == nil {
		t.Fatalf("Expected error parsing %q", letters)
	}
	if !strings.Contains(err.Error(), "invalid date format") {
		t.Fatalf("Should have error with invalid date format: %v", err)
	}
}

func doTestParseDateArg(t *testing.T, startString string, nextString string, format string) {
	start, next, err := parseDateArg(startString)
	if err != nil {
		t.Fatalf("Parsing date string: %v", err)
	}

	expectedStart, err := time.Parse(format, startString)
	if err != nil {
		t.Fatalf("Constructing expectedStart: %v", err)
	}

	expectedNext, err := time.Parse(format, nextString)
	if err != nil {
		t.Fatalf("Constructing expectedNext: %v", err)
	}

	if start != expectedStart {
		t.Fatalf("Expected start to be %q, got %q", expectedStart, start)
	}

	if next != expectedNext {
		t.Fatalf("Expected next to be %q, got %q", expectedNext, next)
	}
}

func TestParseDateRangeFromArgs_empty(t *testing.T) {
	start, end, err := parseDateRangeFromArgs(nil)
	if err != nil {
		t.Fatalf("No arguments should mean the full range: %v", err)
	}
	if !start.IsZero() || !end.IsZero() {
		t.Fatalf("Expected zero times, got %q to %q", start, end)
	}
}

func TestParseDateRangeFromArgs_single(t *testing.T) {
	start, end, err := parseDateRangeFromArgs([]string{"2020-05"})
	if err != nil {
		t.Fatalf("Parsing single argument: %v", err)
	}
	if start.Format("2006-01-02") != "2020-05-01" {
		t.Fatalf("Expected start of May, got %q", start)
	}
	if end.Format("2006-01-02") != "2020-06-01" {
		t.Fatalf("Expected start of June, got %q", end)
	}
}

func TestParseDateRangeFromArgs_pair(t *testing.T) {
	start, end, err := parseDateRangeFromArgs([]string{"2020", "2021-03"})
	if err != nil {
		t.Fatalf("Parsing pair of arguments: %v", err)
	}
	if start.Format("2006-01-02") != "2020-01-01" {
		t.Fatalf("Expected start of 2020, got %q", start)
	}
	if end.Format("2006-01-02") != "2021-04-01" {
		t.Fatalf("Expected end of March 2021, got %q", end)
	}
}

func TestParseDateRangeFromArgs_endBeforeStart(t *testing.T) {
	_, _, err := parseDateRangeFromArgs([]string{"2021", "2020"})
	if err == nil {
		t.Fatalf("Expected error with end before start")
	}
	if !strings.Contains(err.Error(), "not after") {
		t.Fatalf("Should have error about range ordering: %v", err)
	}
}
