package preset

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/utils/db/dbtest"
)

func TestPresetUpsert(t *testing.T) {
	h := NewHandler(NewRepository(dbtest.Open(t, &TeamSheetPreset{})))
	post := func(body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.Upsert(rr, httptest.NewRequest(http.MethodPost, "/teamsheet-presets", strings.NewReader(body)))
		return rr
	}

	post(`{"name":"Friday","store_id":1,"data_json":[{"section":"B1"}]}`)
	post(`{"name":"Brunch","store_id":1,"data_json":[]}`)
	rr := post(`{"name":"Friday","store_id":1,"data_json":[{"section":"B2"},{"section":"B3"}]}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var got Read
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got.ID != 1 || len(got.DataJSON) != 2 {
		t.Fatalf("upsert must replace data: %+v", got)
	}

	if rr := post(`{"name":"Bad","data_json":[1,2]}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("non-object items status=%d", rr.Code)
	}

	list := httptest.NewRecorder()
	h.List(list, httptest.NewRequest(http.MethodGet, "/teamsheet-presets?store_id=1", nil))
	var out []Read
	_ = json.Unmarshal(list.Body.Bytes(), &out)
	if len(out) != 2 || out[0].Name != "Brunch" || out[1].Name != "Friday" {
		t.Fatalf("list ordered by name: %+v", out)
	}
}
