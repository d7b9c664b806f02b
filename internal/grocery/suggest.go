package grocery

import (
	"strings"

	"github.com/dukerupert/provisions/internal/model"
)

// SuggestSection guesses the section an item name belongs to. It matches
// case-insensitively: exact name first, then keyword. ok is false when
// nothing matches.
func SuggestSection(itemName string) (section model.Section, ok bool) {
	name := strings.ToLower(strings.Join(strings.Fields(itemName), " "))
	if name == "" {
		return "", false
	}

	if sec, ok := exactSections[name]; ok {
		return sec, true
	}

	for _, entry := range sectionKeywords {
		if strings.Contains(name, entry.keyword) {
			return entry.section, true
		}
	}
	return "", false
}

var exactSections = map[string]model.Section{
	// Meat
	"gà":       model.SectionMeat,
	"vịt":      model.SectionMeat,
	"ngao":     model.SectionMeat,
	"mực":      model.SectionMeat,
	"trứng":    model.SectionMeat,
	"chả":      model.SectionMeat,
	"giò":      model.SectionMeat,
	"chân giò": model.SectionMeat,

	// Vegetables
	"tỏi":      model.SectionVegetables,
	"riềng":    model.SectionVegetables,
	"gừng":     model.SectionVegetables,
	"sả":       model.SectionVegetables,
	"quất":     model.SectionVegetables,
	"chanh":    model.SectionVegetables,
	"giá đỗ":   model.SectionVegetables,
	"đậu phụ":  model.SectionVegetables,
	"lá nếp":   model.SectionVegetables,
	"hoa hồng": model.SectionVegetables,

	// Dry goods
	"đường":     model.SectionDryGoods,
	"muối":      model.SectionDryGoods,
	"gạo":       model.SectionDryGoods,
	"bún":       model.SectionDryGoods,
	"phở":       model.SectionDryGoods,
	"dưa muối":  model.SectionDryGoods,
	"kem tươi":  model.SectionDryGoods,
	"cốt dừa":   model.SectionDryGoods,
	"hạt tiêu":  model.SectionDryGoods,
	"mì chính":  model.SectionDryGoods,
	"bột ngọt":  model.SectionDryGoods,
	"nước mắm":  model.SectionDryGoods,
	"dầu ăn":    model.SectionDryGoods,
	"xì dầu":    model.SectionDryGoods,
	"tương ớt":  model.SectionDryGoods,
	"sữa tươi":  model.SectionDryGoods,
	"sữa đặc":   model.SectionDryGoods,
	"cà phê":    model.SectionDryGoods,
	"trà":       model.SectionDryGoods,
	"nước ngọt": model.SectionDryGoods,

	// Fruit
	"táo":        model.SectionFruit,
	"chuối":      model.SectionFruit,
	"xoài":       model.SectionFruit,
	"cam":        model.SectionFruit,
	"nho":        model.SectionFruit,
	"dứa":        model.SectionFruit,
	"ổi":         model.SectionFruit,
	"bưởi":       model.SectionFruit,
	"lê":         model.SectionFruit,
	"mận":        model.SectionFruit,
	"vải":        model.SectionFruit,
	"nhãn":       model.SectionFruit,
	"chôm chôm":  model.SectionFruit,
	"thanh long": model.SectionFruit,
	"dưa hấu":    model.SectionFruit,
	"dưa vàng":   model.SectionFruit,
	"chanh leo":  model.SectionFruit,
}

type keywordEntry struct {
	keyword string
	section model.Section
}

// Longer and more specific keywords come first.
var sectionKeywords = []keywordEntry{
	// Dry goods phrases that contain vegetable or meat words
	{"chua ngọt", model.SectionDryGoods},
	{"dưa muối", model.SectionDryGoods},
	{"ngũ cốc", model.SectionDryGoods},
	{"phô mai", model.SectionDryGoods},
	{"nước mắm", model.SectionDryGoods},
	{"nước rửa", model.SectionDryGoods},
	{"tương ớt", model.SectionDryGoods},
	{"cốt dừa", model.SectionDryGoods},
	{"dầu ăn", model.SectionDryGoods},

	// Meat
	{"thịt", model.SectionMeat},
	{"sườn", model.SectionMeat},
	{"ba chỉ", model.SectionMeat},
	{"chân giò", model.SectionMeat},
	{"xúc xích", model.SectionMeat},
	{"thăn", model.SectionMeat},
	{"bò", model.SectionMeat},
	{"heo", model.SectionMeat},
	{"lợn", model.SectionMeat},
	{"tôm", model.SectionMeat},
	{"cua", model.SectionMeat},
	{"mực", model.SectionMeat},
	{"ngao", model.SectionMeat},
	{"cá ", model.SectionMeat},
	{"gà ", model.SectionMeat},
	{"vịt", model.SectionMeat},

	// Dry goods
	{"bột", model.SectionDryGoods},
	{"đường", model.SectionDryGoods},
	{"gạo", model.SectionDryGoods},
	{"miến", model.SectionDryGoods},
	{"phở", model.SectionDryGoods},
	{"bún", model.SectionDryGoods},
	{"mỳ", model.SectionDryGoods},
	{"mì", model.SectionDryGoods},
	{"mắm", model.SectionDryGoods},
	{"dấm", model.SectionDryGoods},
	{"giấm", model.SectionDryGoods},
	{"muối", model.SectionDryGoods},
	{"dầu", model.SectionDryGoods},
	{"sữa", model.SectionDryGoods},
	{"kem", model.SectionDryGoods},
	{"hạt", model.SectionDryGoods},

	// Fruit
	{"dưa hấu", model.SectionFruit},
	{"dưa vàng", model.SectionFruit},
	{"chanh leo", model.SectionFruit},
	{"thanh long", model.SectionFruit},
	{"táo", model.SectionFruit},
	{"chuối", model.SectionFruit},
	{"xoài", model.SectionFruit},
	{"bưởi", model.SectionFruit},
	{"dứa", model.SectionFruit},
	{"quả", model.SectionFruit},
	{"trái", model.SectionFruit},

	// Vegetables
	{"xà lách", model.SectionVegetables},
	{"dưa chuột", model.SectionVegetables},
	{"cà chua", model.SectionVegetables},
	{"cà rốt", model.SectionVegetables},
	{"cà pháo", model.SectionVegetables},
	{"bắp cải", model.SectionVegetables},
	{"rau", model.SectionVegetables},
	{"cải", model.SectionVegetables},
	{"hành", model.SectionVegetables},
	{"tỏi", model.SectionVegetables},
	{"ớt", model.SectionVegetables},
	{"nấm", model.SectionVegetables},
	{"đậu", model.SectionVegetables},
	{"giá", model.SectionVegetables},
	{"ngô", model.SectionVegetables},
	{"củ", model.SectionVegetables},
	{"lơ", model.SectionVegetables},
	{"cuộn", model.SectionVegetables},
}
