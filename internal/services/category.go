package services

// CategoryMeta describes one KMA category code: display name and unit.
type CategoryMeta struct {
	Name string
	Unit string
}

// categoryMetadata covers the codes of all three endpoints: ultra-short-term
// nowcast, ultra-short-term forecast and the 3-day (vilage) forecast.
var categoryMetadata = map[string]CategoryMeta{
	// 초단기실황
	"T1H": {Name: "기온", Unit: "℃"},
	"RN1": {Name: "1시간 강수량", Unit: "mm"},
	"UUU": {Name: "동서바람성분", Unit: "m/s"},
	"VVV": {Name: "남북바람성분", Unit: "m/s"},
	"REH": {Name: "습도", Unit: "%"},
	"PTY": {Name: "강수형태", Unit: "코드값"},
	"VEC": {Name: "풍향", Unit: "deg"},
	"WSD": {Name: "풍속", Unit: "m/s"},

	// 초단기예보 추가
	"SKY": {Name: "하늘상태", Unit: "코드값"},
	"LGT": {Name: "낙뢰", Unit: "kA"},

	// 단기예보 추가
	"TMP": {Name: "기온", Unit: "℃"},
	"POP": {Name: "강수확률", Unit: "%"},
	"WAV": {Name: "파고", Unit: "M"},
	"PCP": {Name: "강수량", Unit: "mm"},
	"SNO": {Name: "적설량", Unit: "cm"},
	"TMN": {Name: "최저기온", Unit: "℃"},
	"TMX": {Name: "최고기온", Unit: "℃"},
}

// codeValueMappings decodes enum-valued categories into descriptions.
var codeValueMappings = map[string]map[string]string{
	"SKY": {
		"1": "맑음",
		"3": "구름많음",
		"4": "흐림",
	},
	"PTY": {
		"0": "없음",
		"1": "비",
		"2": "비/눈",
		"3": "눈",
		"4": "소나기",
	},
}

// lookupCategory returns the metadata for a category code. Unknown codes are
// not an error; the zero value means no enrichment.
func lookupCategory(code string) (CategoryMeta, bool) {
	meta, ok := categoryMetadata[code]
	return meta, ok
}

// decodeValue returns the description for an enum-valued category, or empty
// when either the category has no decode table or the value is not in it.
func decodeValue(code, value string) string {
	table, ok := codeValueMappings[code]
	if !ok {
		return ""
	}
	return table[value]
}

// categoryDescription is used by the summary raw-data map: the display name
// when known, otherwise the code itself.
func categoryDescription(code string) string {
	if meta, ok := categoryMetadata[code]; ok {
		return meta.Name
	}
	return code
}
