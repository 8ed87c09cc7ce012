package itad

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"dealbot/internal/deals"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Region:  "br2",
		Country: "BR",
		Shops:   []string{"steam", "gog"},
		Since:   time.Now().AddDate(0, -3, 0),
	}, srv.Client(), zap.NewNop())

	return client, srv
}

func TestClient_Search(t *testing.T) {
	t.Run("returns candidates in order", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("q"); got != "half life" {
				t.Errorf("query q = %q", got)
			}
			if got := r.URL.Query().Get("key"); got != "test-key" {
				t.Errorf("query key = %q", got)
			}
			w.Write([]byte(`{"data":{"results":[
				{"id":1,"plain":"halflife","title":"Half-Life"},
				{"id":2,"plain":"halflife2","title":"Half-Life 2"}
			]}}`))
		})

		results, err := client.Search(context.Background(), "half life")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("got %d results", len(results))
		}
		if results[0].Plain != "halflife" || results[1].Title != "Half-Life 2" {
			t.Errorf("results = %+v", results)
		}
	})

	t.Run("empty result list is not an error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"results":[]}}`))
		})

		results, err := client.Search(context.Background(), "qwertyuiop")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 0 {
			t.Errorf("results = %+v, want empty", results)
		}
	})

	t.Run("provider error payload", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"invalid_query","error_description":"bad input"}`))
		})

		_, err := client.Search(context.Background(), ";;;")
		if !errors.Is(err, deals.ErrBadQuery) {
			t.Errorf("Search() error = %v, want ErrBadQuery", err)
		}
	})

	t.Run("http error status", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.Search(context.Background(), "half life")
		if !errors.Is(err, deals.ErrRequestFailed) {
			t.Errorf("Search() error = %v, want ErrRequestFailed", err)
		}
	})
}

func TestClient_Prices(t *testing.T) {
	t.Run("decodes vendor offers", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("shops"); got != "steam,gog" {
				t.Errorf("query shops = %q", got)
			}
			if got := r.URL.Query().Get("plains"); got != "halflife" {
				t.Errorf("query plains = %q", got)
			}
			w.Write([]byte(`{"data":{"halflife":{"list":[
				{"price_new":9.99,"price_old":19.99,"price_cut":50,"url":"https://store.example/hl",
				 "shop":{"id":"steam","name":"Steam"},"drm":["steam"]},
				{"price_new":19.99,"price_old":19.99,"price_cut":0,"url":"https://gog.example/hl",
				 "shop":{"id":"gog","name":"GOG"},"drm":[]}
			],"urls":{"game":"https://isthereanydeal.com/game/halflife/info"}}}}`))
		})

		offers, err := client.Prices(context.Background(), "halflife")
		if err != nil {
			t.Fatalf("Prices() error = %v", err)
		}
		if len(offers) != 2 {
			t.Fatalf("got %d offers", len(offers))
		}
		if offers[0].Shop != "Steam" || offers[0].Cut != 50 || offers[0].PriceNew != 9.99 {
			t.Errorf("offers[0] = %+v", offers[0])
		}
		if offers[1].Shop != "GOG" || offers[1].Cut != 0 {
			t.Errorf("offers[1] = %+v", offers[1])
		}
	})

	t.Run("empty list", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"halflife":{"list":[],"urls":{}}}}`))
		})

		offers, err := client.Prices(context.Background(), "halflife")
		if err != nil {
			t.Fatalf("Prices() error = %v", err)
		}
		if len(offers) != 0 {
			t.Errorf("offers = %+v, want empty", offers)
		}
	})
}

func TestClient_Overview(t *testing.T) {
	t.Run("decodes all-time low", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"halflife":{"lowest":{
				"price":2.49,"store":"Steam","recorded":1560000000,
				"recorded_formatted":"2019-06-08"
			}}}}`))
		})

		low, err := client.Overview(context.Background(), "halflife")
		if err != nil {
			t.Fatalf("Overview() error = %v", err)
		}
		if low == nil || low.Price != 2.49 || low.Shop != "Steam" || low.RecordedLabel != "2019-06-08" {
			t.Errorf("low = %+v", low)
		}
	})

	t.Run("missing lowest record", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"halflife":{}}}`))
		})

		low, err := client.Overview(context.Background(), "halflife")
		if err != nil {
			t.Fatalf("Overview() error = %v", err)
		}
		if low != nil {
			t.Errorf("low = %+v, want nil", low)
		}
	})
}

func TestClient_RecentLow(t *testing.T) {
	t.Run("decodes qualifying record", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("new"); got != "1" {
				t.Errorf("query new = %q", got)
			}
			if got := r.URL.Query().Get("since"); got == "" {
				t.Error("query since missing")
			}
			w.Write([]byte(`{"data":{"halflife":{
				"shop":{"id":"nuuvem","name":"Nuuvem"},
				"price":3.99,"cut":60,"added":1700000000
			}}}`))
		})

		low, err := client.RecentLow(context.Background(), "halflife")
		if err != nil {
			t.Fatalf("RecentLow() error = %v", err)
		}
		if low == nil || low.Price != 3.99 || low.Shop != "Nuuvem" {
			t.Fatalf("low = %+v", low)
		}
		if low.Recorded.Unix() != 1700000000 {
			t.Errorf("recorded = %v", low.Recorded)
		}
	})

	t.Run("no qualifying sale in window", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"halflife":{}}}`))
		})

		low, err := client.RecentLow(context.Background(), "halflife")
		if err != nil {
			t.Fatalf("RecentLow() error = %v", err)
		}
		if low != nil {
			t.Errorf("low = %+v, want nil", low)
		}
	})
}

func TestClient_GameURL(t *testing.T) {
	client := New(Config{}, http.DefaultClient, zap.NewNop())
	want := "https://isthereanydeal.com/game/halflife/info"
	if got := client.GameURL("halflife"); got != want {
		t.Errorf("GameURL() = %q, want %q", got, want)
	}
}
