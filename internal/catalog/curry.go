package catalog

import (
	"time"

	"github.com/hammamikhairi/lotbook/internal/domain"
)

// CurryRiceID is the ID of the built-in curry dish.
const CurryRiceID = "curry-rice"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func curryRice() (*domain.Dish, []*domain.Lot) {
	dish := &domain.Dish{
		ID:          CurryRiceID,
		Name:        "カレーライス",
		Description: "定番の日本風カレーライス。野菜や肉をじっくり煮込んだルーに、スパイスを加えて作る家庭料理の定番。",
		Settings: domain.EvaluationSettings{Items: []domain.EvaluationItem{
			{ID: 1, Name: "スパイス感", Description: "スパイスの香りや風味の強さ", Type: domain.ItemSlider, Scale: 5, Enabled: true, Order: 1},
			{ID: 2, Name: "とろみ", Description: "ルーのとろみ具合", Type: domain.ItemSlider, Scale: 7, Enabled: true, Order: 2},
			{ID: 3, Name: "具材のバランス", Description: "肉と野菜のバランスが良いか", Type: domain.ItemStar, Scale: 5, Enabled: true, Order: 3},
			{ID: 4, Name: "甘さ", Description: "甘みの強さ", Type: domain.ItemSlider, Scale: 5, Enabled: true, Order: 4},
			{ID: 5, Name: "塩味", Description: "塩味の強さ", Type: domain.ItemSlider, Scale: 5, Enabled: true, Order: 5},
			{ID: 6, Name: "旨味", Description: "旨味の強さ", Type: domain.ItemSlider, Scale: 5, Enabled: true, Order: 6},
			{ID: 7, Name: "辛さ", Description: "辛さの強さ", Type: domain.ItemSlider, Scale: 10, Enabled: true, Order: 7},
			{ID: 8, Name: "酸味", Description: "酸味の強さ", Type: domain.ItemNumber, Scale: 5, Enabled: true, Order: 8},
		}},
	}

	baseSteps := []domain.Step{
		{Order: 1, Description: "野菜と肉を一口大に切ります。"},
		{Order: 2, Description: "鍋に油を熱し、肉を炒めます。"},
		{Order: 3, Description: "野菜を加えて炒めます。"},
		{Order: 4, Description: "水を加えて沸騰させ、アクを取り除きます。"},
		{Order: 5, Description: "弱火で30分煮込みます。"},
		{Order: 6, Description: "火を止め、ルーを割り入れて溶かします。"},
		{Order: 7, Description: "再び弱火で10分煮込みます。"},
	}

	basic := &domain.Lot{
		ID:          "CR-2023-001",
		DishID:      CurryRiceID,
		LotNumber:   "CR-2023-001",
		Status:      domain.LotEvaluated,
		TestDate:    date(2023, time.October, 15),
		Assignee:    "田中太郎",
		RecipeTitle: "基本のカレーライス",
		Recipe: domain.Recipe{
			Title: "基本のカレーライス",
			Ingredients: []domain.Ingredient{
				{Name: "牛肉", Amount: "300", Unit: "g"},
				{Name: "玉ねぎ", Amount: "2", Unit: "個"},
				{Name: "にんじん", Amount: "1", Unit: "本"},
				{Name: "じゃがいも", Amount: "2", Unit: "個"},
				{Name: "カレールー", Amount: "1", Unit: "箱"},
				{Name: "水", Amount: "800", Unit: "ml"},
				{Name: "サラダ油", Amount: "大さじ", Unit: "1"},
			},
			Steps: baseSteps,
		},
		Evaluation: &domain.Evaluation{
			RatedAttributeSet: domain.RatedAttributeSet{
				OverallRating:     4,
				TasteProfiles:     map[string]int{"スパイス感": 4, "とろみ": 5, "甘さ": 3, "塩味": 4, "旨味": 5, "辛さ": 2, "酸味": 2},
				CustomStarRatings: map[string]int{"具材のバランス": 4},
				Appearance:        4,
				Texture:           3,
				Aroma:             4,
			},
			Comments:     "玉ねぎの甘みがよく出ていて美味しい。スパイスの香りがもう少し強くてもよいかも。全体的にバランスが良く、家庭的な味わい。",
			Improvements: "- スパイスの種類を増やす\n- 煮込み時間をもう少し長くする\n- 隠し味にチョコレートを少量加えてみる",
			EvaluatedBy:  "山田花子",
			EvaluatedAt:  date(2023, time.October, 16),
		},
	}

	spicy := &domain.Lot{
		ID:            "CR-2023-002",
		DishID:        CurryRiceID,
		LotNumber:     "CR-2023-002",
		Status:        domain.LotEvaluated,
		TestDate:      date(2023, time.November, 2),
		Assignee:      "鈴木花子",
		RecipeTitle:   "スパイシーカレー",
		BaselineLotID: basic.ID,
		Recipe: domain.Recipe{
			Title: "スパイシーカレー",
			Ingredients: []domain.Ingredient{
				{Name: "牛肉", Amount: "300", Unit: "g"},
				{Name: "玉ねぎ", Amount: "2", Unit: "個"},
				{Name: "にんじん", Amount: "1", Unit: "本"},
				{Name: "じゃがいも", Amount: "2", Unit: "個"},
				{Name: "カレールー", Amount: "1", Unit: "箱"},
				{Name: "水", Amount: "800", Unit: "ml"},
				{Name: "サラダ油", Amount: "大さじ", Unit: "1"},
				{Name: "ガラムマサラ", Amount: "小さじ", Unit: "1"},
				{Name: "唐辛子", Amount: "1", Unit: "本"},
			},
			Steps: append(append([]domain.Step{}, baseSteps...),
				domain.Step{Order: 8, Description: "仕上げにガラムマサラを加えて混ぜます。"}),
		},
		Evaluation: &domain.Evaluation{
			RatedAttributeSet: domain.RatedAttributeSet{
				OverallRating:     3,
				TasteProfiles:     map[string]int{"スパイス感": 5, "とろみ": 3, "甘さ": 2, "塩味": 4, "旨味": 4, "辛さ": 7, "酸味": 3},
				CustomStarRatings: map[string]int{"具材のバランス": 3},
				Appearance:        3,
				Texture:           4,
				Aroma:             5,
			},
			Comments:     "スパイスの香りが特徴的で、辛さもちょうど良い。ルーのとろみがもう少しあると良いかも。",
			Improvements: "- スパイスの種類をもう少し増やす\n- ルーのとろみを強くする",
			EvaluatedBy:  "佐藤健太",
			EvaluatedAt:  date(2023, time.November, 3),
		},
	}

	veggie := &domain.Lot{
		ID:            "CR-2023-003",
		DishID:        CurryRiceID,
		LotNumber:     "CR-2023-003",
		Status:        domain.LotEvaluated,
		TestDate:      date(2023, time.November, 10),
		Assignee:      "佐藤次郎",
		RecipeTitle:   "野菜たっぷりカレー",
		BaselineLotID: basic.ID,
		Recipe: domain.Recipe{
			Title: "野菜たっぷりカレー",
			Ingredients: []domain.Ingredient{
				{Name: "牛肉", Amount: "200", Unit: "g"},
				{Name: "玉ねぎ", Amount: "3", Unit: "個"},
				{Name: "にんじん", Amount: "2", Unit: "本"},
				{Name: "じゃがいも", Amount: "3", Unit: "個"},
				{Name: "カレールー", Amount: "1", Unit: "箱"},
				{Name: "水", Amount: "1000", Unit: "ml"},
				{Name: "サラダ油", Amount: "大さじ", Unit: "1"},
				{Name: "かぼちゃ", Amount: "1/4", Unit: "個"},
				{Name: "ズッキーニ", Amount: "1", Unit: "本"},
				{Name: "なす", Amount: "1", Unit: "個"},
			},
			Steps: []domain.Step{
				{Order: 1, Description: "野菜と肉を一口大に切ります。"},
				{Order: 2, Description: "フライパンに油を熱し、肉を炒めます。"},
				{Order: 3, Description: "玉ねぎを加えて透き通るまで炒めます。"},
				{Order: 4, Description: "残りの野菜を加えて炒めます。"},
				{Order: 5, Description: "水を加えて沸騰させ、アクを取り除きます。"},
				{Order: 6, Description: "弱火で40分煮込みます。"},
				{Order: 7, Description: "火を止め、ルーを割り入れて溶かします。"},
				{Order: 8, Description: "再び弱火で10分煮込みます。"},
			},
		},
		Evaluation: &domain.Evaluation{
			RatedAttributeSet: domain.RatedAttributeSet{
				OverallRating:     5,
				TasteProfiles:     map[string]int{"スパイス感": 4, "とろみ": 4, "甘さ": 4, "塩味": 3, "旨味": 5, "辛さ": 3, "酸味": 2},
				CustomStarRatings: map[string]int{"具材のバランス": 5},
				Appearance:        5,
				Texture:           4,
				Aroma:             4,
			},
			Comments:     "野菜の甘みがよく出ていて美味しい。全体的にバランスが良く、家庭的な味わい。",
			Improvements: "- 煮込み時間をもう少し長くする\n- なすは素揚げしてから加える",
			EvaluatedBy:  "山田花子",
			EvaluatedAt:  date(2023, time.November, 11),
		},
	}

	return dish, []*domain.Lot{basic, spicy, veggie}
}
