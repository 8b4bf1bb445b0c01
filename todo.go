/*
	Project: Loop - degree classification dashboard for honours students
*/
package loop

/*
TODO: target solver pools credits*multiplier across levels while the classifier blends the two level
	averages 1/3 : 2/3, so they disagree when L5 and L6 carry different credit totals. Solve per level.
TODO: admin: import students & grades from the CSV export of the student records system.
TODO: per-student auth before the API leaves the demo environment.
*/
