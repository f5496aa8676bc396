package receipt

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/TongyunK/orderFood-system/internal/entity"
)

func sampleTicket() Ticket {
	return Ticket{
		Code:          "D00520260829123005420001",
		DailySequence: 1,
		Kind:          entity.KindDineIn,
		CreatedAt:     time.Date(2026, 8, 29, 12, 30, 5, 0, time.UTC),
		TotalAmount:   "25.00",
		Lines: []Line{
			{Name: "雞排飯", Quantity: 2, UnitPrice: "12.50", Subtotal: "25.00"},
		},
		Store:           StoreMeta{NameZH: "美味食堂", NameEN: "Tasty Kitchen"},
		Payment:         &PaymentMeta{NameZH: "現金", NameEN: "Cash"},
		DefaultEncoding: EncodingGBK,
	}
}

func textLines(job Job) []Text {
	var out []Text
	for _, p := range job {
		if t, ok := p.(Text); ok {
			out = append(out, t)
		}
	}
	return out
}

func findText(t *testing.T, job Job, substr string) Text {
	t.Helper()
	for _, line := range textLines(job) {
		if strings.Contains(line.Content, substr) {
			return line
		}
	}
	t.Fatalf("no text primitive containing %q", substr)
	return Text{}
}

func TestRenderIdempotent(t *testing.T) {
	a := Render(sampleTicket())
	b := Render(sampleTicket())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("rendering the same ticket twice produced different jobs")
	}
}

func TestRenderShortCodeIsOversizedAndBold(t *testing.T) {
	job := Render(sampleTicket())
	code := findText(t, job, "D0001")
	if code.Scale != ScaleQuad || !code.Bold {
		t.Fatalf("short code primitive = %+v, want quad scale and bold", code)
	}
	if code.Content != "D0001" {
		t.Fatalf("short code content = %q", code.Content)
	}
}

func TestRenderSeparators(t *testing.T) {
	job := Render(sampleTicket())
	want := strings.Repeat("-", LineWidth)
	count := 0
	for _, line := range textLines(job) {
		if line.Content == want {
			count++
		}
	}
	if count != 5 {
		t.Fatalf("found %d separators, want 5", count)
	}
}

func TestRenderItemRowColumns(t *testing.T) {
	job := Render(sampleTicket())
	row := findText(t, job, "12.50")
	if Width(row.Content) != LineWidth {
		t.Fatalf("item row width = %d units, want %d: %q", Width(row.Content), LineWidth, row.Content)
	}
	if !strings.HasSuffix(row.Content, "25.00") {
		t.Fatalf("subtotal not right-aligned: %q", row.Content)
	}
	if row.Encoding != EncodingBig5 {
		t.Fatalf("CJK item row tagged %q, want big5", row.Encoding)
	}
}

func TestRenderTableHeaderTwiceBold(t *testing.T) {
	job := Render(sampleTicket())
	zh := findText(t, job, "品名")
	en := findText(t, job, "Item")
	if !zh.Bold || !en.Bold {
		t.Fatal("table headers must be bold")
	}
	if zh.Encoding != EncodingBig5 {
		t.Fatalf("zh header tagged %q, want big5", zh.Encoding)
	}
	if en.Encoding != EncodingGBK {
		t.Fatalf("en header tagged %q, want default gbk", en.Encoding)
	}
	if Width(zh.Content) != LineWidth || Width(en.Content) != LineWidth {
		t.Fatal("table headers must span the full line width")
	}
}

func TestRenderTotalsRow(t *testing.T) {
	job := Render(sampleTicket())
	row := findText(t, job, "合計")
	if !strings.Contains(row.Content, "2") {
		t.Fatalf("totals row missing summed quantity: %q", row.Content)
	}
	if !strings.HasSuffix(row.Content, "$25.00") {
		t.Fatalf("totals row missing literal amount: %q", row.Content)
	}
}

func TestRenderPaymentAmountJustified(t *testing.T) {
	job := Render(sampleTicket())
	line := findText(t, job, "應付金額")
	if Width(line.Content) != LineWidth {
		t.Fatalf("payment line width = %d, want %d", Width(line.Content), LineWidth)
	}
	if !strings.HasSuffix(line.Content, "$25.00") {
		t.Fatalf("amount not justified to line end: %q", line.Content)
	}
	if !strings.Contains(line.Content, " ") {
		t.Fatal("label and amount need at least one space between them")
	}
	if line.Scale != ScaleDouble || !line.Bold {
		t.Fatalf("payment line = %+v, want double scale and bold", line)
	}
}

func TestRenderPaymentMethodPair(t *testing.T) {
	job := Render(sampleTicket())
	zh := findText(t, job, "付款方式")
	if !strings.HasPrefix(zh.Content, PadRight("付款方式", 12)) {
		t.Fatalf("payment label not padded to 12 units: %q", zh.Content)
	}
	if !strings.HasSuffix(zh.Content, "現金") {
		t.Fatalf("payment value missing: %q", zh.Content)
	}
	en := findText(t, job, "Cash")
	if !strings.HasPrefix(en.Content, PadRight("Payment", 12)) {
		t.Fatalf("english payment label not padded: %q", en.Content)
	}
}

func TestRenderOmitsPaymentPairWhenUnset(t *testing.T) {
	ticket := sampleTicket()
	ticket.Payment = nil
	job := Render(ticket)
	for _, line := range textLines(job) {
		if strings.Contains(line.Content, "付款方式") {
			t.Fatalf("payment pair rendered without payment meta: %q", line.Content)
		}
	}
}

func TestRenderStoreNumberFromCode(t *testing.T) {
	job := Render(sampleTicket())
	line := findText(t, job, "店號")
	if !strings.Contains(line.Content, "005") {
		t.Fatalf("store number should come from code chars 2-4: %q", line.Content)
	}
}

func TestRenderLongCodeTruncated(t *testing.T) {
	ticket := sampleTicket()
	ticket.Code = "D005" + strings.Repeat("9", 60)
	job := Render(ticket)
	line := findText(t, job, "單號")
	if Width(line.Content) > LineWidth {
		t.Fatalf("code line overflows: %q", line.Content)
	}
	if !strings.HasSuffix(line.Content, "...") {
		t.Fatalf("overlong code line missing ellipsis: %q", line.Content)
	}
}

func TestRenderEndsWithFeedAndCut(t *testing.T) {
	job := Render(sampleTicket())
	if len(job) < 2 {
		t.Fatal("job too short")
	}
	feed, ok := job[len(job)-2].(Feed)
	if !ok || feed.Lines == 0 {
		t.Fatalf("expected multi-line feed before cut, got %+v", job[len(job)-2])
	}
	if _, ok := job[len(job)-1].(Cut); !ok {
		t.Fatalf("expected trailing cut, got %+v", job[len(job)-1])
	}
}

func TestRenderBilingualStoreNameJoined(t *testing.T) {
	job := Render(sampleTicket())
	name := findText(t, job, "美味食堂")
	if name.Content != "美味食堂 - Tasty Kitchen" {
		t.Fatalf("store name = %q", name.Content)
	}
	if name.Align != AlignCenter {
		t.Fatal("store name must be centered")
	}
	if name.Encoding != EncodingBig5 {
		t.Fatalf("CJK store name tagged %q, want big5", name.Encoding)
	}
}

func TestRenderRespectsConfiguredDefaultEncoding(t *testing.T) {
	ticket := sampleTicket()
	ticket.DefaultEncoding = EncodingBig5
	job := Render(ticket)
	en := findText(t, job, "Thank you")
	if en.Encoding != EncodingBig5 {
		t.Fatalf("ascii line should carry default encoding, got %q", en.Encoding)
	}
}
