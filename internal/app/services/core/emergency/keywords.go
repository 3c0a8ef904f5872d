package emergency

// Dialect-partitioned emergency keyword table. Every partition is
// scanned on every message regardless of the caller's stated dialect;
// the stated dialect only orders the reported partitions.
var dialectKeywords = map[string][]string{
	"english": {
		"emergency", "urgent", "severe", "chest pain", "can't breathe",
		"unconscious", "stroke", "heart attack", "bleeding", "overdose",
	},
	"thai_standard": {
		"ฉุกเฉิน", "เร่งด่วน", "รุนแรง", "ปวดหน้าอก", "หายใจไม่ออก",
		"หมดสติ", "โรคหลอดเลือดสมอง", "หัวใจวาย", "เลือดออก",
	},
	"thai_northern": {
		"จุกแล้ว", "จุกโพด", "เจ็บแล้ว", "หายใจไม่ออก", "จุกหน้าอก",
	},
	"thai_isan": {
		"บักแล้วโพด", "แล้งโพด", "เจ็บบักแล้ว", "แล้งหน้าอก",
	},
	"thai_southern": {
		"ปวดหัง", "เจ็บหัง", "ปวดโพดหัง", "หายใจไม่ออกหัง",
	},
}

// Red-flag symptoms that escalate regardless of dialect. Grouped by
// clinical category; every group here is treated as critical.
var redFlagKeywords = map[string][]string{
	"cardiovascular": {
		"เจ็บหน้าอก", "ปวดหน้าอก", "แน่นหน้าอก", "หายใจไม่ออก", "หายใจลำบาก",
		"ใจเต้นผิดปกติ", "chest pain", "shortness of breath",
	},
	"neurological": {
		"หมดสติ", "ชัก", "อัมพาต", "พูดไม่ได้", "มึนงง", "โรคหลอดเลือดสมอง",
		"ปวดหัวรุนแรง", "มองไม่เห็น", "unconscious", "seizure", "stroke", "paralysis",
	},
	"severe_allergic": {
		"บวมรุนแรง", "ลิ้นบวม", "คอบวม", "เป็นลม", "วิงเวียนมาก",
		"anaphylaxis", "severe swelling", "throat swelling",
	},
	"severe_bleeding": {
		"เลือดออกมาก", "อาเจียนเป็นเลือด", "ถ่ายเป็นเลือด", "ถ่ายดำ",
		"severe bleeding", "blood vomiting", "bloody stool",
	},
	"high_fever": {
		"ไข้สูงมาก", "ไข้เกิน 40", "ซึมมาก", "ปวดคอแข็ง",
		"very high fever", "febrile seizure", "neck stiffness",
	},
}
