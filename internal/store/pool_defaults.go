package store

import "github.com/dukerupert/provisions/internal/model"

func seed(name, unit string, buy, sell float64) model.PoolItemInput {
	return model.PoolItemInput{Name: name, Unit: unit, SuggestedBuyPrice: model.Number(buy), SuggestedSellPrice: model.Number(sell)}
}

// defaultPool holds the starter templates, prices in thousands of VND.
var defaultPool = map[model.Section][]model.PoolItemInput{
	model.SectionMeat: {
		seed("Thịt bò mông", "kg", 230, 230),
		seed("Thịt nạc vai", "kg", 130, 130),
		seed("Thịt dẻ sườn bò", "kg", 180, 180),
		seed("Thịt nạm bò", "kg", 180, 180),
		seed("Thịt Bò", "kg", 230, 230),
		seed("Cá Rô Phi Lê", "kg", 90, 90),
		seed("Ngao", "kg", 20, 20),
		seed("Chân Giò", "kg", 120, 120),
		seed("Tôm Lớp Nhỏ", "kg", 160, 160),
		seed("Gà", "kg", 120, 120),
	},
	model.SectionVegetables: {
		seed("Cà rốt", "kg", 13, 13),
		seed("Ớt xanh", "quả", 8, 8),
		seed("Ớt đỏ", "quả", 8, 8),
		seed("Ngô (bắp)", "kg", 13, 13),
		seed("Xoài", "kg", 25, 25),
		seed("Đậu Phụ", "bìa", 3, 3),
		seed("Giá đỗ", "kg", 15, 15),
		seed("Tỏi", "kg", 45, 45),
		seed("Lá nếp", "kg", 50, 50),
		seed("Bắp cải", "quả", 15, 15),
		seed("Lơ trắng", "kg", 40, 40),
		seed("Dưa chuột", "kg", 20, 20),
		seed("Chanh Leo", "kg", 30, 30),
		seed("Dưa hấu", "kg", 16, 16),
		seed("Chuối", "nải", 30, 30),
		seed("Rau Mùi", "kg", 80, 80),
		seed("Hành Khô Thái", "kg", 35, 35),
		seed("Hành Tây", "kg", 12, 12),
		seed("Ớt Vàng", "kg", 50, 50),
		seed("Cuộn Trắng", "kg", 40, 40),
		seed("Cuộn Tím", "kg", 90, 90),
		seed("Dưa Vàng", "kg", 25, 25),
		seed("Xà Lách", "kg", 25, 25),
		seed("Quất", "kg", 20, 20),
		seed("Cà Chua", "kg", 28, 28),
		seed("Nấm Hải Sản", "kg", 35, 35),
		seed("Ớt Đà Lạt", "kg", 40, 40),
		seed("Hoa Hồng", "bông", 4, 4),
		seed("Táo", "kg", 80, 80),
		seed("Rau Muống", "mớ", 25, 25),
		seed("Cà Pháo", "kg", 23, 23),
		seed("Riềng", "kg", 10, 10),
	},
	model.SectionDryGoods: {
		seed("Phở", "kg", 15, 15),
		seed("Đậu cove", "kg", 30, 30),
		seed("Củ đậu", "kg", 12, 12),
		seed("Dấm Trắng", "thùng", 265, 265),
		seed("Phô Mai lá", "gói", 275, 275),
		seed("Phô Mai bào", "kg", 220, 220),
		seed("Phô Mai Moza", "gói", 85, 85),
		seed("Bột Mỳ", "kg", 20, 20),
		seed("Đường", "kg", 21, 21),
		seed("Bún", "kg", 15, 15),
		seed("Phở Lá", "kg", 15, 15),
		seed("Mắm Nam Ngư", "chai", 55, 55),
		seed("Dầu Ăn", "thùng", 800, 800),
		seed("Nước rửa bát", "thùng", 280, 280),
		seed("Đường Phèn", "kg", 30, 30),
		seed("Miến Dong", "kg", 70, 70),
		seed("Bột Chiên Giòn", "kg", 30, 30),
		seed("Cà Pháo Chua Ngọt", "lọ", 60, 60),
		seed("Dưa Muối", "kg", 24, 24),
		seed("Kem Tươi", "hộp", 160, 160),
		seed("Cốt Dừa", "hộp", 30, 30),
		seed("Ngũ Cốc Milo", "hộp", 100, 100),
		seed("Ngũ Cốc Ngô To", "hộp", 125, 125),
		seed("Ngũ Cốc Ngô Nhỏ", "hộp", 85, 85),
	},
}
