package extract

import (
	"testing"
	"time"
)

func TestExtractDateFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     *ExtractedDate
	}{
		{
			name:     "MM-DD-YYYY inside a longer name",
			filename: "berkshire_care_09-11-2025_1111.pdf",
			want:     &ExtractedDate{Month: "09", Day: "11", Year: "2025"},
		},
		{
			name:     "MM-DD-YYYY with trailing words",
			filename: "test_12-25-2024_data.xls",
			want:     &ExtractedDate{Month: "12", Day: "25", Year: "2024"},
		},
		{
			name:     "YYYY-MM-DD",
			filename: "report_2024-12-25.xlsx",
			want:     &ExtractedDate{Month: "12", Day: "25", Year: "2024"},
		},
		{
			name:     "date at the start of the name",
			filename: "03-07-2023-hydration.pdf",
			want:     &ExtractedDate{Month: "03", Day: "07", Year: "2023"},
		},
		{
			name:     "MM-DD-YYYY wins over a later YYYY-MM-DD",
			filename: "exported_2023-01-15_run_10-31-2024.xlsx",
			want:     &ExtractedDate{Month: "10", Day: "31", Year: "2024"},
		},
		{
			name:     "no date at all",
			filename: "cenark-behaviours.pdf",
			want:     nil,
		},
		{
			name:     "slashes do not count",
			filename: "report_12/25/2024.pdf",
			want:     nil,
		},
		{
			name:     "single-digit month is not recognized",
			filename: "home_9-11-2025.pdf",
			want:     nil,
		},
		{
			name:     "digits touching the date break the boundary",
			filename: "run112-25-2024.pdf",
			want:     nil,
		},
		{
			name:     "implausible month and day are skipped",
			filename: "batch_13-40-2024.xlsx",
			want:     nil,
		},
		{
			name:     "implausible token adjoining a valid date does not hide it",
			filename: "99-99-2024_12-25-2024.pdf",
			want:     &ExtractedDate{Month: "12", Day: "25", Year: "2024"},
		},
		{
			name:     "implausible prefixed token shares a separator with the real date",
			filename: "batch_13-40-2024_12-25-2024.xlsx",
			want:     &ExtractedDate{Month: "12", Day: "25", Year: "2024"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDateFromFilename(tt.filename)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %+v, got nil", tt.want)
			}
			if *got != *tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestExtractDateOrNow(t *testing.T) {
	now := time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC)

	t.Run("uses the filename date when present", func(t *testing.T) {
		got := ExtractDateOrNow("log_05-09-2024.pdf", now)
		want := ExtractedDate{Month: "05", Day: "09", Year: "2024"}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("falls back to the processing date", func(t *testing.T) {
		got := ExtractDateOrNow("weekly-summary.pdf", now)
		want := ExtractedDate{Month: "02", Day: "03", Year: "2026"}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})
}

func TestExtractedDateTime(t *testing.T) {
	d := ExtractedDate{Month: "09", Day: "11", Year: "2025"}
	ts, err := d.Time()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Year() != 2025 || ts.Month() != time.September || ts.Day() != 11 {
		t.Errorf("unexpected time %v", ts)
	}
}
