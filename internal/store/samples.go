package store

import (
	"time"

	"github.com/LavenderBridge/physbank/internal/models"
)

// sampleProblems seeds an empty local store.
func sampleProblems(now time.Time) []models.Problem {
	created := now
	return []models.Problem{
		{
			ID:         "1",
			Title:      "斜面上的物块",
			Chapter:    "牛顿运动定律",
			Difficulty: "easy",
			Source:     "示例",
			Content:    "质量为 2 kg 的物块静止在倾角为 30° 的光滑斜面上，由静止释放。求物块沿斜面下滑的加速度大小。(g 取 10 m/s²)",
			Answer:     "5 m/s²",
			Analysis:   "沿斜面方向只有重力分量 mg·sin30° 提供合力，a = g·sin30° = 5 m/s²。",
			Tags:       []string{"力学", "牛顿第二定律"},
			CreatedAt:  &created,
			UpdatedAt:  &created,
		},
		{
			ID:         "2",
			Title:      "平抛运动",
			Chapter:    "曲线运动",
			Difficulty: "medium",
			Source:     "示例",
			Content:    "一小球从 20 m 高处以 10 m/s 的速度水平抛出，不计空气阻力。求小球落地时的水平位移。(g 取 10 m/s²)",
			Answer:     "20 m",
			Analysis:   "竖直方向 h = ½gt²，得 t = 2 s；水平位移 x = v₀t = 20 m。",
			Tags:       []string{"力学", "运动学", "平抛运动"},
			CreatedAt:  &created,
			UpdatedAt:  &created,
		},
	}
}
