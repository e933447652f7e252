package skill

import "github.com/jackc/pgx/v5"

func scanSkills(rows pgx.Rows) ([]Skill, error) {
	var skills []Skill
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.MemberID, &s.Name, &s.Description, &s.Category,
			&s.Rate, &s.Rating, &s.Latitude, &s.Longitude, &s.CreatedAt); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}
