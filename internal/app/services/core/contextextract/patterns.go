package contextextract

import "regexp"

// Age patterns tried in order; the first hit inside the plausible
// range 1..120 wins. The bare "N ปี" form excludes weight phrasing.
var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`อายุ\s*(\d+)\s*ปี`),
	regexp.MustCompile(`อายุ\s*(\d+)`),
	regexp.MustCompile(`(\d+)\s*ปี`),
	regexp.MustCompile(`วัย\s*(\d+)`),
	regexp.MustCompile(`(\d+)\s*ขวบ`),
}

var (
	malePattern   = regexp.MustCompile(`ผู้ชาย|เพศชาย`)
	femalePattern = regexp.MustCompile(`ผู้หญิง|เพศหญิง|หญิง`)
	// Fallback for bare ชาย once the female forms are ruled out.
	bareMalePattern = regexp.MustCompile(`ชาย`)
)

var (
	noHistoryPattern = regexp.MustCompile(`ไม่มีประวัติโรคประจำตัว|ไม่เป็นโรคอะไร`)
	historyPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`เป็น(เบาหวาน|ความดันสูง|ความดันโลหิตสูง|โรคหัวใจ|ไตเสื่อม|หอบหืด|ไมเกรน)`),
		regexp.MustCompile(`ประวัติ(เบาหวาน|ความดันสูง|โรคหัวใจ)`),
		regexp.MustCompile(`มีโรค(เบาหวาน|ความดันสูง|โรคหัวใจ)`),
	}
)

var (
	noAllergyPattern = regexp.MustCompile(`ไม่แพ้(?:อะไร|ยา|อาหาร)|ไม่มีการแพ้`)
	allergyPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`แพ้ยา([^\s]+)`),
		regexp.MustCompile(`แพ้([^\s]+)`),
	}
)

// symptomTokens maps surface forms to normalized symptom tokens. More
// specific phrases are listed before their prefixes so แพ้อากาศ does
// not shadow แพ้ยา handling above.
var symptomTokens = []struct {
	Phrase string
	Token  string
}{
	{"ปวดหัวรุนแรง", "severe_headache"},
	{"ปวดหัว", "headache"},
	{"ปวดศีรษะ", "headache"},
	{"ไข้สูง", "high_fever"},
	{"มีไข้", "fever"},
	{"เป็นไข้", "fever"},
	{"ไข้", "fever"},
	{"ตัวร้อน", "fever"},
	{"คัดจมูก", "nasal_congestion"},
	{"จมูกแน่น", "nasal_congestion"},
	{"น้ำมูก", "runny_nose"},
	{"ไอแห้ง", "dry_cough"},
	{"ไอ", "cough"},
	{"เจ็บคอ", "sore_throat"},
	{"คอแห้ง", "sore_throat"},
	{"จาม", "sneezing"},
	{"ปวดเมื่อย", "body_aches"},
	{"เมื่อยตัว", "body_aches"},
	{"หนาวสั่น", "chills"},
	{"อ่อนเพลีย", "fatigue"},
	{"เหนื่อย", "fatigue"},
	{"คลื่นไส้", "nausea"},
	{"อาเจียน", "vomiting"},
	{"ท้องเสีย", "diarrhea"},
	{"ปวดท้อง", "abdominal_pain"},
	{"ท้องอืด", "bloating"},
	{"ผื่น", "rash"},
	{"คัน", "itching"},
	{"วิงเวียน", "dizziness"},
	{"ปัสสาวะแสบ", "painful_urination"},
	{"ปัสสาวะบ่อย", "frequent_urination"},
	{"นอนไม่หลับ", "insomnia"},
}
