package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionMatrix_AxisIsSortedAndDeterministic(t *testing.T) {
	m := NewTransitionMatrix([]string{"美容/脱毛", "その他/物販", "美容/外科"})

	assert.Equal(t, []string{"その他/物販", "美容/外科", "美容/脱毛"}, m.Categories)
}

func TestTransitionMatrix_IncrementAndTotals(t *testing.T) {
	m := NewTransitionMatrix([]string{"美容/外科", "美容/脱毛"})

	m.Increment("美容/外科", "美容/脱毛")
	m.Increment("美容/外科", "美容/脱毛")
	m.Increment("美容/脱毛", "美容/外科")

	assert.Equal(t, 2, m.Count("美容/外科", "美容/脱毛"))
	assert.Equal(t, 2, m.RowTotal("美容/外科"))
	assert.Equal(t, 3, m.Total())
}

func TestTransitionMatrix_IncrementOutsideAxisIsIgnored(t *testing.T) {
	m := NewTransitionMatrix([]string{"美容/外科"})

	m.Increment("美容/皮膚科", "美容/外科")

	assert.Equal(t, 0, m.Total())
}

func TestCategory_Key(t *testing.T) {
	c := Category{Main: MainBeauty, Sub: "脱毛", Procedure: "全身脱毛"}
	assert.Equal(t, "美容/脱毛", c.Key())
	assert.True(t, c.IsCountable())

	other := Category{Main: MainOther, Sub: "物販"}
	assert.False(t, other.IsCountable())
}
